package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewPredict, "predict"},
		{ViewAbout, "about"},
		{ViewHistory, "history"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.view.String())
	}
}

func TestViewType_Distinct(t *testing.T) {
	views := []ViewType{ViewMenu, ViewPredict, ViewAbout, ViewHistory, ViewSettings, ViewHelp}
	seen := make(map[ViewType]bool)
	for _, v := range views {
		assert.False(t, seen[v], "duplicate view: %s", v)
		seen[v] = true
	}
}

func TestPredictionCompleted_CarriesError(t *testing.T) {
	err := domain.NewPipelineError(domain.StageParse, errors.New("bad csv"))
	msg := PredictionCompleted{Path: "in.csv", Err: err}

	assert.Nil(t, msg.Prediction)
	assert.True(t, domain.IsPipelineError(msg.Err))
}
