package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change failcast settings stored in config.toml.

Keys:
  model.path                    classifier artefact (JSON)
  model.scaler_path             scaler artefact (JSON)
  model.positive_class_index    probability column of the failure class
  model.remote_url              model server used instead of model.path
  model.remote_token_url        OAuth2 token endpoint for the model server
  model.remote_client_id        OAuth2 client id
  model.remote_client_secret    OAuth2 client secret
  model.remote_rps              request rate limit for the model server
  pipeline.label_column         column excluded from model input
  pipeline.threshold            high-risk threshold in percent
  pipeline.strict_column_order  require the scaler's column order
  server.addr                   web UI listen address
  server.result_ttl_minutes     how long the web UI keeps results`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	for _, key := range domain.SettingKeys() {
		value, _ := settings.Value(key)
		switch {
		case value == "":
			value = "(unset)"
		case domain.IsSecretKey(key):
			value = "********"
		}
		cmd.Printf("%-29s %s\n", key, value)
	}
	if err != nil {
		cmd.Println()
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	if domain.IsSecretKey(key) {
		value = "********"
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}
