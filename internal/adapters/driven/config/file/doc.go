// Package file stores failcast settings in ~/.failcast/config.toml.
//
// Keys are dotted in memory and written as TOML tables:
//
//	[model]
//	path = "model.json"
//	scaler_path = "scaler.json"
//
//	[pipeline]
//	threshold = 80.0
package file
