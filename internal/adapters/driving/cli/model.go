package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var modelJSON bool

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect the loaded model",
}

var modelInfoCmd = &cobra.Command{
	Use:         "info",
	Short:       "Show the scaler and classifier in use",
	Args:        cobra.NoArgs,
	Annotations: modelAnnotation(),
	RunE:        runModelInfo,
}

func init() {
	modelInfoCmd.Flags().BoolVar(&modelJSON, "json", false, "output as JSON")
	modelCmd.AddCommand(modelInfoCmd)
	rootCmd.AddCommand(modelCmd)
}

func runModelInfo(cmd *cobra.Command, _ []string) error {
	if predictionService == nil {
		return errNoPredictionService
	}
	info := predictionService.ModelInfo()

	if modelJSON {
		out := struct {
			Scaler             string   `json:"scaler"`
			Model              string   `json:"model"`
			Features           []string `json:"features"`
			Classes            []string `json:"classes"`
			PositiveClassIndex int      `json:"positive_class_index"`
		}{
			Scaler:             info.ScalerKind,
			Model:              info.ModelKind,
			Features:           nonNil(info.Features),
			Classes:            nonNil(info.Classes),
			PositiveClassIndex: info.PositiveClassIndex,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal model info: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Scaler:         %s\n", info.ScalerKind)
	cmd.Printf("Model:          %s\n", info.ModelKind)
	if len(info.Features) > 0 {
		cmd.Printf("Features:       %s\n", strings.Join(info.Features, ", "))
	} else {
		cmd.Println("Features:       (not recorded, any numeric columns)")
	}
	if len(info.Classes) > 0 {
		cmd.Printf("Classes:        %s\n", strings.Join(info.Classes, ", "))
	}
	if class := info.PositiveClass(); class != "" {
		cmd.Printf("Failure class:  %s (column %d)\n", class, info.PositiveClassIndex)
	} else {
		cmd.Printf("Failure class:  column %d\n", info.PositiveClassIndex)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
