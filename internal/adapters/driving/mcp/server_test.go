package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil prediction service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingPredictionService)
	})

	t.Run("prediction only creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Prediction: &mockPredictionService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("with history creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Prediction: &mockPredictionService{},
			History:    &mockHistoryService{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingPredictionService)
	assert.NoError(t, (&Ports{Prediction: &mockPredictionService{}}).Validate())
}

func TestServer_RunHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Prediction: &mockPredictionService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}
