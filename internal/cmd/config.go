package cmd

import (
	"fmt"

	"github.com/penfolio/penfolio-cli/pkg/config"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/output"
	"github.com/spf13/cobra"
)

var configKeys = []string{
	"api.base_url",
	"api.timeout",
	"output.format",
	"feed.page_size",
	"notifications.poll_interval",
	"log.level",
	"log.file",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		record := make(map[string]interface{}, len(configKeys)+1)
		for _, k := range configKeys {
			record[k] = config.GetString(k)
		}
		record["config_file"] = config.GetConfigFilePath()
		return output.PrintRecord("Configuration", record)
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Persist a configuration value",
	Args:      cobra.ExactArgs(2),
	ValidArgs: configKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !knownConfigKey(key) {
			return clierrors.ValidationError(fmt.Sprintf("Unknown config key %q", key)).
				WithSuggestion("Run 'penfolio config show' to list keys.")
		}
		if key == "output.format" && !output.ValidateOutputFormat(value) {
			return clierrors.ValidationError(fmt.Sprintf("Unknown output format %q", value))
		}
		if err := config.SetString(key, value); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		output.PrintSuccess("✓ %s = %s", key, value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		output.Println(config.GetConfigFilePath())
	},
}

func knownConfigKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
