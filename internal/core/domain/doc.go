// Package domain defines the core business entities for failcast.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Table: An uploaded CSV held as named columns and text cells
//   - Prediction: A table annotated with predicted failures and risk
//   - Run: The summary of one pipeline execution
//   - Settings: Application configuration values
//
// The column transformations of the inference pipeline (normalising
// names, deriving the feature subset, annotating and selecting high-risk
// rows) are pure functions over Table and live here as well.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
