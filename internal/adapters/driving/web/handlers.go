package web

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/services"
	"github.com/custodia-labs/failcast/internal/logger"
)

type indexPage struct {
	Threshold float64
	Error     string
}

type resultsPage struct {
	Prediction *domain.Prediction
	ShowChart  bool
	FileName   string
}

type aboutPage struct {
	Info      domain.ModelInfo
	Threshold float64
}

// predictResponse is the JSON body of POST /api/predict.
type predictResponse struct {
	RunID     string      `json:"run_id"`
	Rows      int         `json:"rows"`
	HighRisk  int         `json:"high_risk"`
	Threshold float64     `json:"threshold"`
	Warning   string      `json:"warning,omitempty"`
	Results   []rowResult `json:"results"`
}

type rowResult struct {
	Row              int     `json:"row"`
	PredictedFailure string  `json:"predicted_failure"`
	FailureRisk      float64 `json:"failure_risk"`
	HighRisk         bool    `json:"high_risk"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

type modelResponse struct {
	Scaler             string   `json:"scaler"`
	Model              string   `json:"model"`
	Features           []string `json:"features"`
	Classes            []string `json:"classes"`
	PositiveClassIndex int      `json:"positive_class_index"`
	PositiveClass      string   `json:"positive_class,omitempty"`
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, pageIndex, indexPage{Threshold: s.config.Threshold})
}

// handleUpload runs the pipeline on the uploaded file and redirects to its results.
// Submitting without a file returns to the upload form.
func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if err != nil {
		return s.renderUploadError(c, http.StatusBadRequest, err)
	}

	threshold, err := parseThreshold(c.FormValue("threshold"))
	if err != nil {
		return s.renderUploadError(c, http.StatusBadRequest, err)
	}

	f, err := fh.Open()
	if err != nil {
		return s.renderUploadError(c, http.StatusBadRequest, err)
	}
	defer f.Close()

	pred, err := s.ports.Prediction.Predict(c.Request().Context(), f, domain.PredictOptions{
		Source:    fh.Filename,
		Threshold: threshold,
	})
	if err != nil {
		return s.renderUploadError(c, http.StatusUnprocessableEntity, err)
	}

	s.ports.Results.Put(pred)
	return c.Redirect(http.StatusSeeOther, "/results/"+pred.RunID)
}

func (s *Server) renderUploadError(c echo.Context, status int, err error) error {
	return c.Render(status, pageIndex, indexPage{Threshold: s.config.Threshold, Error: err.Error()})
}

func (s *Server) handleResults(c echo.Context) error {
	pred, ok := s.ports.Results.Get(c.Param("id"))
	if !ok {
		return c.Render(http.StatusNotFound, pageMissing, nil)
	}
	return c.Render(http.StatusOK, pageResults, resultsPage{
		Prediction: pred,
		ShowChart:  s.ports.Chart != nil,
		FileName:   domain.ResultFileName,
	})
}

// handleDownload streams the annotated table as predicted_results.csv.
func (s *Server) handleDownload(c echo.Context) error {
	pred, ok := s.ports.Results.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "result expired")
	}

	var buf bytes.Buffer
	if err := services.WriteTable(&buf, pred.Table); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", domain.ResultFileName))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleChart(c echo.Context) error {
	if s.ports.Chart == nil {
		return echo.NewHTTPError(http.StatusNotFound, "charts disabled")
	}
	pred, ok := s.ports.Results.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "result expired")
	}

	var buf bytes.Buffer
	if err := s.ports.Chart.RenderRiskTrend(&buf, pred.Risks, pred.Threshold); err != nil {
		logger.Warn("Chart for %s failed: %v", pred.RunID, err)
		return fmt.Errorf("rendering chart: %w", err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) handleAbout(c echo.Context) error {
	return c.Render(http.StatusOK, pageAbout, aboutPage{
		Info:      s.ports.Prediction.ModelInfo(),
		Threshold: s.config.Threshold,
	})
}

func (s *Server) handleModel(c echo.Context) error {
	info := s.ports.Prediction.ModelInfo()
	resp := modelResponse{
		Scaler:             info.ScalerKind,
		Model:              info.ModelKind,
		Features:           info.Features,
		Classes:            info.Classes,
		PositiveClassIndex: info.PositiveClassIndex,
		PositiveClass:      info.PositiveClass(),
	}
	if resp.Features == nil {
		resp.Features = []string{}
	}
	if resp.Classes == nil {
		resp.Classes = []string{}
	}
	return c.JSON(http.StatusOK, resp)
}

// handleAPIPredict scores a raw CSV body.
// Query parameters: threshold, source.
func (s *Server) handleAPIPredict(c echo.Context) error {
	threshold, err := parseThreshold(c.QueryParam("threshold"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	source := c.QueryParam("source")
	if source == "" {
		source = "api"
	}

	pred, err := s.ports.Prediction.Predict(c.Request().Context(), c.Request().Body, domain.PredictOptions{
		Source:    source,
		Threshold: threshold,
	})
	if err != nil {
		resp := errorResponse{Error: err.Error()}
		var pe *domain.PipelineError
		if errors.As(err, &pe) {
			resp.Stage = string(pe.Stage)
		}
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}

	s.ports.Results.Put(pred)

	resp := predictResponse{
		RunID:     pred.RunID,
		Rows:      pred.Table.NumRows(),
		HighRisk:  pred.HighRiskCount(),
		Threshold: pred.Threshold,
		Warning:   pred.Warning(),
		Results:   make([]rowResult, len(pred.Risks)),
	}
	for i, risk := range pred.Risks {
		resp.Results[i] = rowResult{
			Row:              i,
			PredictedFailure: pred.Labels[i],
			FailureRisk:      risk,
			HighRisk:         risk > pred.Threshold,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMetrics(c echo.Context) error {
	if s.ports.Metrics == nil {
		return c.JSON(http.StatusOK, map[string]any{})
	}
	return c.JSON(http.StatusOK, finiteSnapshot(s.ports.Metrics.Snapshot()))
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// parseThreshold reads an optional threshold. Empty means the configured default.
func parseThreshold(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || v < 0 || v > 100 {
		return nil, fmt.Errorf("%w: threshold must be a number between 0 and 100, got %q",
			domain.ErrInvalidInput, raw)
	}
	return domain.ThresholdOption(v), nil
}

// finiteSnapshot replaces NaN and infinite values, which JSON cannot carry.
func finiteSnapshot(snapshot map[string]map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(snapshot))
	for name, values := range snapshot {
		clean := make(map[string]any, len(values))
		for k, v := range values {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				v = nil
			}
			clean[k] = v
		}
		out[name] = clean
	}
	return out
}
