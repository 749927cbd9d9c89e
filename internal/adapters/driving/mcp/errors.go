// Package mcp provides a Model Context Protocol server adapter for Docchat.
// It lets MCP-compatible AI assistants chat with the local document
// collection and inspect what has been ingested.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
