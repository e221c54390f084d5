package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

func TestExtractRunID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid run URI", "failcast://runs/run-123", "run-123"},
		{"invalid prefix", "file://runs/run-123", ""},
		{"nested path", "failcast://runs/run-123/extra", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRunID(tt.uri))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleModelResource(t *testing.T) {
	mock := &mockPredictionService{info: domain.ModelInfo{
		ScalerKind:         "standard",
		ModelKind:          "logistic",
		Features:           []string{"Temperature", "VOC"},
		Classes:            []string{"0", "1"},
		PositiveClassIndex: 1,
	}}
	server, err := NewServer(&Ports{Prediction: mock})
	require.NoError(t, err)

	result, err := server.handleModelResource(context.Background(), readRequest("failcast://model"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var got modelInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.Equal(t, []string{"Temperature", "VOC"}, got.Features)
	assert.Equal(t, "1", got.PositiveClass)
	assert.Equal(t, "logistic", got.Model)
}

func TestServer_handleModelResource_UnknownFeatures(t *testing.T) {
	server, err := NewServer(&Ports{Prediction: &mockPredictionService{}})
	require.NoError(t, err)

	result, err := server.handleModelResource(context.Background(), readRequest("failcast://model"))
	require.NoError(t, err)

	assert.Contains(t, result.Contents[0].Text, `"features": []`)
}

func TestServer_handleRunResource(t *testing.T) {
	history := &mockHistoryService{runs: []domain.Run{
		{ID: "run-9", Status: domain.RunFailed, Stage: domain.StageFeatures, Error: "bad column"},
	}}
	server, err := NewServer(&Ports{Prediction: &mockPredictionService{}, History: history})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		result, err := server.handleRunResource(context.Background(), readRequest("failcast://runs/run-9"))
		require.NoError(t, err)

		var got RunOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, "failed", got.Status)
		assert.Equal(t, "features", got.Stage)
		assert.Equal(t, "bad column", got.Error)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := server.handleRunResource(context.Background(), readRequest("failcast://runs/nope"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := server.handleRunResource(context.Background(), readRequest("failcast://other"))
		assert.Error(t, err)
	})
}
