package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"jsonflake/internal/config"
	"jsonflake/internal/ui"
	"jsonflake/pkg/errors"
	"jsonflake/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := commandConfig(cmd, nil)
		if cfg.Snowflake.Password != "" {
			cfg.Snowflake.Password = "********"
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "Failed to render configuration")
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path := configFile()
		if _, err := os.Stat(path); err == nil && !force {
			return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("%s already exists", path)).
				WithSuggestions("Pass --force to overwrite it")
		}

		starter := &models.Config{
			Snowflake: models.Snowflake{
				Account:   "myaccount",
				Username:  "loader",
				Warehouse: "COMPUTE_WH",
				Database:  "RAW",
				Schema:    "JSON",
				Timeout:   "60s",
			},
			Targets: []models.Target{
				{Name: "local", Kind: "sqlite", DSN: "jsonflake.db"},
			},
		}
		starter.ApplyDefaults()

		if err := config.SaveFile(path, starter); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to write configuration")
		}
		say(cmd, ui.ShowSuccess, fmt.Sprintf("wrote %s", path))
		say(cmd, ui.ShowInfo, fmt.Sprintf("store the Snowflake password in the OS keyring as service %q, user %q",
			config.KeyringService, config.KeyringUser(starter.Snowflake)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
}
