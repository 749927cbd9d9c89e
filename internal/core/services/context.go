package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// DefaultMaxContextChars bounds the assembled context block.
const DefaultMaxContextChars = 4000

// blockSeparator joins context blocks in the assembled output.
const blockSeparator = "\n\n---\n\n"

// ContextAssembler turns ranked retrieval results into the context
// block that grounds document-mode answers.
type ContextAssembler struct {
	maxChars int
}

// NewContextAssembler creates an assembler with the given character
// budget. Non-positive budgets fall back to the default.
func NewContextAssembler(maxChars int) *ContextAssembler {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}
	return &ContextAssembler{maxChars: maxChars}
}

// Assemble walks results in rank order and packs whole chunks into the
// budget. A chunk that does not fit is skipped, never truncated, so
// lower-ranked chunks may still be included. The one exception is the
// first included chunk: if it alone exceeds the budget it is truncated
// at a word boundary rather than returning an empty context. The budget
// counts characters, not bytes. Returns the context block and the
// results that made it in.
func (a *ContextAssembler) Assemble(results []domain.RetrievalResult) (string, []domain.RetrievalResult) {
	var (
		blocks   []string
		included []domain.RetrievalResult
		used     int
	)

	for _, r := range results {
		block := formatBlock(r)
		cost := utf8.RuneCountInString(block)
		if len(blocks) > 0 {
			cost += len(blockSeparator)
		}

		if used+cost > a.maxChars {
			if len(blocks) == 0 {
				cut := a.truncateBlock(r)
				blocks = append(blocks, cut)
				included = append(included, r)
				used = utf8.RuneCountInString(cut)
				logger.Debug("Context chunk %s truncated to fit %d char budget", r.ChunkID, a.maxChars)
			}
			continue
		}

		blocks = append(blocks, block)
		included = append(included, r)
		used += cost
	}

	logger.Debug("Assembled context from %d of %d chunks (%d chars)", len(included), len(results), used)
	return strings.Join(blocks, blockSeparator), included
}

// truncateBlock fits one result into the full budget. The attribution
// header is kept intact and the content is cut separately, so the
// header's own newline never masquerades as a word boundary.
func (a *ContextAssembler) truncateBlock(r domain.RetrievalResult) string {
	header := "[Source: " + r.Filename + "]\n"
	budget := a.maxChars - utf8.RuneCountInString(header)
	if budget <= 0 {
		return truncateRunes(header, a.maxChars)
	}
	return header + truncateWords(r.Content, budget)
}

// truncateRunes cuts s to at most max characters on a rune boundary.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	offset := 0
	for i := 0; i < max; i++ {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return s[:offset]
}

// truncateWords cuts s to at most max characters, backing up to the
// last whitespace so no word is split. Content with no whitespace in
// range falls back to the plain rune cut.
func truncateWords(s string, max int) string {
	cut := truncateRunes(s, max)
	if cut == s {
		return s
	}
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		trimmed := strings.TrimRightFunc(cut[:idx], unicode.IsSpace)
		if trimmed != "" {
			return trimmed
		}
	}
	return cut
}

// formatBlock renders one retrieval result with its source attribution.
func formatBlock(r domain.RetrievalResult) string {
	return "[Source: " + r.Filename + "]\n" + r.Content
}
