// Package extractors provides text extraction from uploaded files.
//
// Each subpackage handles one file kind (plain text, DOCX, PDF) and
// implements the Extractor driven port. The Registry in this package
// dispatches on the declared file kind; content sniffing is never used.
package extractors
