// Package driving defines the interfaces through which the outside world
// calls INTO the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Core services implement these interfaces, and driving adapters (CLI,
// HTTP API, TUI, MCP) consume them.
//
//   - ChatService: Conversational question answering
//   - IngestService: Document ingestion and corpus management
//   - SearchService: Similarity search over ingested chunks
//   - SettingsService: Persisted configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package, driven ports
package driving
