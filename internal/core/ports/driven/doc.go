// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Converts raw uploaded bytes into plain text
//   - ExtractorRegistry: Selects the extractor for a declared file kind
//   - PostProcessorPipeline: Splits extracted text into chunks
//   - DocumentStore: Document and chunk persistence
//   - VectorIndex: Vector storage and similarity search
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Language model completions
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: Customisable prompt templates; embedded defaults are
//     used when nil.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
