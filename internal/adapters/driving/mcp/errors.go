// Package mcp provides an MCP (Model Context Protocol) server adapter for failcast.
// It lets AI assistants score sensor CSVs and read run history.
package mcp

import "errors"

// ErrMissingPredictionService is returned when the prediction service is not provided.
var ErrMissingPredictionService = errors.New("mcp: prediction service is required")
