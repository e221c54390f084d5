package tui

import "errors"

// ErrMissingPredictionService is returned when the prediction service is not provided.
var ErrMissingPredictionService = errors.New("tui: prediction service is required")
