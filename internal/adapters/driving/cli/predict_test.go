package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

const machinesCSV = "Machine\ncold\nhot\ncold\n"

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machines.csv")
	require.NoError(t, os.WriteFile(path, []byte(machinesCSV), 0o600))
	return path
}

func TestPredictCmd_Use(t *testing.T) {
	assert.Equal(t, "predict [file.csv]", predictCmd.Use)
	assert.Contains(t, predictCmd.Long, "Failure Risk (%)")
}

func TestPredictCmd_Flags(t *testing.T) {
	flag := predictCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
	for _, name := range []string{"threshold", "json", "chart", "high-risk"} {
		assert.NotNil(t, predictCmd.Flags().Lookup(name), name)
	}
}

func TestPredictCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "predict")

	assert.ErrorContains(t, err, "accepts 1 arg(s)")
}

func TestPredictCmd_WritesCSVToNonTerminal(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "predict", writeInput(t))

	require.NoError(t, err)
	assert.Equal(t,
		"Machine,Predicted Failure,Failure Risk (%)\ncold,0,10.0\nhot,1,90.0\ncold,0,10.0\n",
		out)
	assert.Equal(t, "machines.csv", testPrediction.opts.Source)
}

func TestPredictCmd_Stdin(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, machinesCSV, "predict", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "hot,1,90.0")
	assert.Equal(t, "stdin", testPrediction.opts.Source)
}

func TestPredictCmd_HighRiskOnly(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "predict", "--high-risk", writeInput(t))

	require.NoError(t, err)
	assert.Equal(t, "Machine,Predicted Failure,Failure Risk (%)\nhot,1,90.0\n", out)
}

func TestPredictCmd_OutputFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dest := filepath.Join(t.TempDir(), domain.ResultFileName)

	out, err := execute(t, "", "predict", "-o", dest, writeInput(t))

	require.NoError(t, err)
	assert.Contains(t, out, "3 rows, 1 above 80.0% risk")
	assert.Contains(t, out, "⚠️ 1 machines are at HIGH risk of failure!")
	assert.Contains(t, out, "Saved "+dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hot,1,90.0")
}

func TestPredictCmd_Threshold(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "predict", "--threshold", "95", "--json", writeInput(t))

	require.NoError(t, err)
	require.NotNil(t, testPrediction.opts.Threshold)
	assert.Equal(t, 95.0, *testPrediction.opts.Threshold)

	var got predictionJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 0, got.HighRisk)
	assert.Empty(t, got.Warning)
}

func TestPredictCmd_ThresholdZero(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "predict", "--threshold", "0", "--json", writeInput(t))

	require.NoError(t, err)
	require.NotNil(t, testPrediction.opts.Threshold)
	assert.Zero(t, *testPrediction.opts.Threshold)

	var got predictionJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Zero(t, got.Threshold)
	assert.Equal(t, 3, got.HighRisk)
}

func TestPredictCmd_ThresholdDefault(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "predict", "--json", writeInput(t))

	require.NoError(t, err)
	assert.Nil(t, testPrediction.opts.Threshold)
}

func TestPredictCmd_ThresholdOutOfRange(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "predict", "--threshold", "120", writeInput(t))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPredictCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "predict", "--json", writeInput(t))
	require.NoError(t, err)

	var got predictionJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, 1, got.HighRisk)
	assert.Equal(t, 80.0, got.Threshold)
	require.Len(t, got.Results, 3)
	assert.Equal(t, rowResultJSON{Row: 1, PredictedFailure: "1", FailureRisk: 90, HighRisk: true}, got.Results[1])
}

func TestPredictCmd_Chart(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dest := filepath.Join(t.TempDir(), "trend.png")

	_, err := execute(t, "", "predict", "--chart", dest, "--json", writeInput(t))
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 90, 10}, testChart.risks)
	assert.Equal(t, 80.0, testChart.threshold)
	assert.FileExists(t, dest)
}

func TestPredictCmd_ChartWithoutRenderer(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	chartRenderer = nil

	_, err := execute(t, "", "predict", "--chart", filepath.Join(t.TempDir(), "x.png"), writeInput(t))

	assert.ErrorContains(t, err, "chart renderer not configured")
}

func TestPredictCmd_PipelineError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testPrediction.err = domain.NewPipelineError(domain.StageFeatures, domain.ErrSchemaMismatch)
	dest := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "", "predict", "-o", dest, writeInput(t))

	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.NoFileExists(t, dest)
}

func TestPredictCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "predict", filepath.Join(t.TempDir(), "none.csv"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPredictCmd_NoService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	predictionService = nil

	_, err := execute(t, "", "predict", "x.csv")

	assert.ErrorIs(t, err, errNoPredictionService)
}

func TestOutputPredictionTable(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	pred, err := testPrediction.Predict(t.Context(), strings.NewReader(machinesCSV), domain.PredictOptions{Source: "m.csv"})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	predictCmd.SetOut(buf)
	defer predictCmd.SetOut(nil)

	outputPredictionTable(predictCmd, pred)

	out := buf.String()
	assert.Contains(t, out, "Source: m.csv")
	assert.Contains(t, out, fmt.Sprintf("! %5d  %-17s  %s", 1, "1", "90.0"))
	assert.Contains(t, out, fmt.Sprintf("  %5d  %-17s  %s", 0, "0", "10.0"))
	assert.Contains(t, out, "3 rows, 1 above 80.0% risk")
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))
}
