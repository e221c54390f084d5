package domain

import (
	"strconv"
	"time"
)

// Configuration keys, in dot notation as stored in config.toml.
const (
	KeyModelPath          = "model.path"
	KeyScalerPath         = "model.scaler_path"
	KeyPositiveClassIndex = "model.positive_class_index"
	KeyRemoteURL          = "model.remote_url"
	KeyRemoteTokenURL     = "model.remote_token_url"
	KeyRemoteClientID     = "model.remote_client_id"
	KeyRemoteClientSecret = "model.remote_client_secret" //nolint:gosec // key name, not a secret
	KeyRemoteRPS          = "model.remote_rps"
	KeyLabelColumn        = "pipeline.label_column"
	KeyThreshold          = "pipeline.threshold"
	KeyStrictColumnOrder  = "pipeline.strict_column_order"
	KeyServerAddr         = "server.addr"
	KeyResultTTLMinutes   = "server.result_ttl_minutes"
)

// SettingKeys lists every configuration key in display order.
func SettingKeys() []string {
	return []string{
		KeyModelPath,
		KeyScalerPath,
		KeyPositiveClassIndex,
		KeyRemoteURL,
		KeyRemoteTokenURL,
		KeyRemoteClientID,
		KeyRemoteClientSecret,
		KeyRemoteRPS,
		KeyLabelColumn,
		KeyThreshold,
		KeyStrictColumnOrder,
		KeyServerAddr,
		KeyResultTTLMinutes,
	}
}

// Settings holds the application configuration.
type Settings struct {
	// ModelPath is the classifier artefact. Unused when RemoteURL is set.
	ModelPath string `validate:"required_without=RemoteURL"`

	// ScalerPath is the scaler artefact.
	ScalerPath string `validate:"required"`

	// PositiveClassIndex selects the failure column of the probability matrix.
	PositiveClassIndex int `validate:"gte=0"`

	// RemoteURL points at a model server that replaces the local classifier.
	RemoteURL string `validate:"omitempty,url"`

	// RemoteTokenURL enables OAuth2 client credentials for the model server.
	RemoteTokenURL     string `validate:"omitempty,url"`
	RemoteClientID     string `validate:"required_with=RemoteTokenURL"`
	RemoteClientSecret string `validate:"required_with=RemoteTokenURL"`

	// RemoteRPS caps requests per second to the model server.
	RemoteRPS float64 `validate:"gte=0"`

	// LabelColumn is excluded from model input, compared case-insensitively.
	LabelColumn string `validate:"required"`

	// Threshold is the risk percentage above which a row is high risk.
	Threshold float64 `validate:"gt=0,lte=100"`

	// StrictColumnOrder requires feature columns in the scaler's order.
	StrictColumnOrder bool

	// ServerAddr is the web UI listen address.
	ServerAddr string `validate:"required"`

	// ResultTTL is how long the web UI keeps a prediction for download.
	ResultTTL time.Duration `validate:"gt=0"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		ModelPath:          "model.json",
		ScalerPath:         "scaler.json",
		PositiveClassIndex: 1,
		RemoteRPS:          10,
		LabelColumn:        DefaultLabelColumn,
		Threshold:          DefaultRiskThreshold,
		ServerAddr:         ":8501",
		ResultTTL:          30 * time.Minute,
	}
}

// UsesRemoteModel reports whether predictions come from a model server.
func (s Settings) UsesRemoteModel() bool {
	return s.RemoteURL != ""
}

// Value returns the text form of the setting stored under key.
func (s Settings) Value(key string) (string, bool) {
	switch key {
	case KeyModelPath:
		return s.ModelPath, true
	case KeyScalerPath:
		return s.ScalerPath, true
	case KeyPositiveClassIndex:
		return strconv.Itoa(s.PositiveClassIndex), true
	case KeyRemoteURL:
		return s.RemoteURL, true
	case KeyRemoteTokenURL:
		return s.RemoteTokenURL, true
	case KeyRemoteClientID:
		return s.RemoteClientID, true
	case KeyRemoteClientSecret:
		return s.RemoteClientSecret, true
	case KeyRemoteRPS:
		return strconv.FormatFloat(s.RemoteRPS, 'g', -1, 64), true
	case KeyLabelColumn:
		return s.LabelColumn, true
	case KeyThreshold:
		return strconv.FormatFloat(s.Threshold, 'g', -1, 64), true
	case KeyStrictColumnOrder:
		return strconv.FormatBool(s.StrictColumnOrder), true
	case KeyServerAddr:
		return s.ServerAddr, true
	case KeyResultTTLMinutes:
		return strconv.Itoa(int(s.ResultTTL.Minutes())), true
	default:
		return "", false
	}
}

// IsSecretKey reports whether the value of key should be masked when shown.
func IsSecretKey(key string) bool {
	return key == KeyRemoteClientSecret
}
