package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
	"github.com/custodia-labs/failcast/internal/logger"
)

// KindRemote names the remote classifier.
const KindRemote = "remote"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is quoted.
const maxErrorBody = 512

var (
	_ driven.Classifier     = (*Classifier)(nil)
	_ driven.JointPredictor = (*Classifier)(nil)
)

// Config configures a remote classifier.
type Config struct {
	// URL is the model server base URL.
	URL string

	// TokenURL enables OAuth2 client credentials when set.
	TokenURL     string
	ClientID     string
	ClientSecret string

	// RequestsPerSecond caps the request rate. Zero means unlimited.
	RequestsPerSecond float64

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Classes is reported by Classes. Leave nil when the server's class
	// labels are unknown; the positive class index is then checked against
	// each probability row instead.
	Classes []string
}

// ConfigFromSettings derives a remote classifier config from settings.
func ConfigFromSettings(s domain.Settings) Config {
	return Config{
		URL:               s.RemoteURL,
		TokenURL:          s.RemoteTokenURL,
		ClientID:          s.RemoteClientID,
		ClientSecret:      s.RemoteClientSecret,
		RequestsPerSecond: s.RemoteRPS,
	}
}

// Classifier calls a model server for predictions.
type Classifier struct {
	endpoint string
	http     *http.Client
	limiter  *RateLimiter
	classes  []string
}

// New creates a remote classifier.
func New(ctx context.Context, cfg Config) (*Classifier, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: remote model url is empty", domain.ErrModelUnavailable)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: timeout}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		client = cc.Client(ctx)
		client.Timeout = timeout
		logger.Debug("Remote model uses client credentials from %s", cfg.TokenURL)
	}

	return &Classifier{
		endpoint: strings.TrimRight(cfg.URL, "/") + "/predict",
		http:     client,
		limiter:  NewRateLimiter(cfg.RequestsPerSecond),
		classes:  cfg.Classes,
	}, nil
}

// Kind returns "remote".
func (c *Classifier) Kind() string { return KindRemote }

// Classes returns the configured class labels, nil when unknown.
func (c *Classifier) Classes() []string { return c.classes }

// Predict returns one label per row.
func (c *Classifier) Predict(ctx context.Context, x domain.FeatureMatrix) ([]string, error) {
	labels, _, err := c.PredictWithProba(ctx, x)
	return labels, err
}

// PredictProba returns one probability row per input row.
func (c *Classifier) PredictProba(ctx context.Context, x domain.FeatureMatrix) ([][]float64, error) {
	_, proba, err := c.PredictWithProba(ctx, x)
	return proba, err
}

type predictRequest struct {
	Instances domain.FeatureMatrix `json:"instances"`
}

type predictResponse struct {
	Predictions   []any       `json:"predictions"`
	Probabilities [][]float64 `json:"probabilities"`
}

// PredictWithProba sends x to the server once and returns labels and probabilities.
func (c *Classifier) PredictWithProba(ctx context.Context, x domain.FeatureMatrix) ([]string, [][]float64, error) {
	body, err := json.Marshal(predictRequest{Instances: x})
	if err != nil {
		return nil, nil, fmt.Errorf("encoding request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrRemoteModel, err)
	}
	defer resp.Body.Close()
	logger.Debug("Remote model answered %s in %s", resp.Status, time.Since(started))

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After")))
		return nil, nil, fmt.Errorf("%w: %s: retry after %s", domain.ErrRemoteModel, resp.Status,
			c.limiter.RetryAt().Format(time.RFC3339))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, nil, fmt.Errorf("%w: %s: %s", domain.ErrRemoteModel, resp.Status, strings.TrimSpace(string(snippet)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding response: %w", domain.ErrRemoteModel, err)
	}

	labels := make([]string, len(out.Predictions))
	for i, p := range out.Predictions {
		label, err := cast.ToStringE(p)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: prediction %d: %w", domain.ErrRemoteModel, i, err)
		}
		labels[i] = label
	}
	return labels, out.Probabilities, nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
