// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The inference pipeline lives here: Pipeline turns one uploaded CSV into
// an annotated prediction using the scaler and classifier held by an
// InferenceContext.
package services
