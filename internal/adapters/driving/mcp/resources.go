package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for failcast resources.
	uriScheme = "failcast://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "model",
		Name:        "model",
		Description: "The loaded scaler and classifier, and the features the model was trained on",
		MIMEType:    "application/json",
	}, s.handleModelResource)

	if s.ports.History != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "runs/{runId}",
			Name:        "run",
			Description: "Summary of a single prediction run",
			MIMEType:    "application/json",
		}, s.handleRunResource)
	}
}

type modelInfo struct {
	Scaler             string   `json:"scaler"`
	Model              string   `json:"model"`
	Features           []string `json:"features"`
	Classes            []string `json:"classes"`
	PositiveClassIndex int      `json:"positive_class_index"`
	PositiveClass      string   `json:"positive_class,omitempty"`
}

// handleModelResource describes the loaded model.
func (s *Server) handleModelResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := s.ports.Prediction.ModelInfo()
	out := modelInfo{
		Scaler:             info.ScalerKind,
		Model:              info.ModelKind,
		Features:           info.Features,
		Classes:            info.Classes,
		PositiveClassIndex: info.PositiveClassIndex,
		PositiveClass:      info.PositiveClass(),
	}
	if out.Features == nil {
		out.Features = []string{}
	}
	if out.Classes == nil {
		out.Classes = []string{}
	}
	return jsonResource(req.Params.URI, out)
}

// handleRunResource returns one run from history.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractRunID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return jsonResource(req.Params.URI, toRunOutput(*run))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like failcast://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
