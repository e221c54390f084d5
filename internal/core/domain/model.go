package domain

// FeatureMatrix is a row-major numeric matrix passed to a scaler or model.
type FeatureMatrix [][]float64

// ModelInfo describes the loaded scaler and classifier.
type ModelInfo struct {
	ScalerKind         string
	ModelKind          string
	Features           []string
	Classes            []string
	PositiveClassIndex int
}

// PositiveClass returns the label of the failure class, or "" if the
// classifier does not report its classes.
func (m ModelInfo) PositiveClass() string {
	if m.PositiveClassIndex < 0 || m.PositiveClassIndex >= len(m.Classes) {
		return ""
	}
	return m.Classes[m.PositiveClassIndex]
}
