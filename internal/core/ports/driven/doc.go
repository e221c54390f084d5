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
//   - Scaler: The pre-fitted feature scaler
//   - Classifier: The pre-trained failure classifier
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run history. Without it runs are not recorded.
//   - ResultCache: Keeps predictions for the web UI session.
//   - ChartRenderer: Risk trend charts. Without it no chart is offered.
//   - TableSummariser: Upload previews. Without it Prediction.Preview is nil.
//   - Metrics: Run counters and latency.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
