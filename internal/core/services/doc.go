// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// ChatService answers questions over the ingested collection,
// IngestService runs documents through extraction, chunking,
// embedding and indexing. SearchService exposes raw similarity
// search, and SettingsService guards the persisted configuration.
package services
