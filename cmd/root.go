package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jsonflake/internal/config"
	"jsonflake/internal/observability"
	"jsonflake/internal/ui"
	"jsonflake/pkg/errors"
	"jsonflake/pkg/models"
)

var (
	// v layers flags and JSONFLAKE_* environment variables over the config file
	v = viper.New()

	appConfig *models.Config
	logger    *observability.Logger

	rootCmd = &cobra.Command{
		Use:   "jsonflake",
		Short: "Normalize JSON documents into relational tables",
		Long: `jsonflake flattens JSON and NDJSON documents into a set of relational
tables linked by surrogate keys, infers a column type for every field, and
generates DDL or loads the tables into Snowflake, PostgreSQL, SQLite,
SQL Server or MySQL.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errors.Display(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default ~/.jsonflake/config.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "console", "log format: console or json")
	flags.BoolP("quiet", "q", false, "only print results")
	flags.Bool("no-color", false, "disable colored output")

	v.SetEnvPrefix("JSONFLAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindFlags(flags, map[string]string{
		"config":     "config",
		"log-level":  "log-level",
		"log-format": "log-format",
		"quiet":      "quiet",
		"no-color":   "no-color",
	})
}

// bindFlags binds flag names to viper keys. Commands call it when they run so
// a key shared by several commands follows the command actually invoked.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if f := fs.Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if v.GetBool("no-color") {
		ui.SetColor(false)
	}

	logger = observability.NewLogger(observability.LoggerConfig{
		Level:   observability.LogLevelFromString(v.GetString("log-level")),
		Output:  cmd.ErrOrStderr(),
		Service: "jsonflake",
		Version: Version,
		JSON:    strings.EqualFold(v.GetString("log-format"), "json"),
	})
	observability.SetDefaultLogger(logger)

	path := configFile()
	cfg, err := config.LoadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to load configuration").
			WithContext("file", path)
	}
	appConfig = cfg
	logger.Debugf("configuration loaded from %s", path)
	return nil
}

// configFile is --config, then JSONFLAKE_CONFIG, then the default location
func configFile() string {
	if path := v.GetString("config"); path != "" {
		return path
	}
	return config.GetConfigFile()
}

// applyOverrides copies flag and environment values that were actually set
// over the file configuration
func applyOverrides(cfg *models.Config) {
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	setString("snowflake.account", &cfg.Snowflake.Account)
	setString("snowflake.username", &cfg.Snowflake.Username)
	setString("snowflake.password", &cfg.Snowflake.Password)
	setString("snowflake.role", &cfg.Snowflake.Role)
	setString("snowflake.warehouse", &cfg.Snowflake.Warehouse)
	setString("snowflake.database", &cfg.Snowflake.Database)
	setString("snowflake.schema", &cfg.Snowflake.Schema)
	setString("snowflake.timeout", &cfg.Snowflake.Timeout)
	setString("normalize.root", &cfg.Normalize.Root)
	setInt("normalize.batch_size", &cfg.Normalize.BatchSize)
	setInt("normalize.parallelism", &cfg.Normalize.Parallelism)
	setString("publish.dir", &cfg.Publish.Dir)

	cfg.ApplyDefaults()
}

// commandConfig binds the running command's flags and returns the
// effective configuration
func commandConfig(cmd *cobra.Command, keys map[string]string) *models.Config {
	bindFlags(cmd.Flags(), keys)
	cfg := *appConfig
	applyOverrides(&cfg)
	return &cfg
}

func quiet() bool { return v.GetBool("quiet") }

// say prints informational output unless --quiet is set
func say(cmd *cobra.Command, show func(w io.Writer, msg string), msg string) {
	if !quiet() {
		show(cmd.OutOrStdout(), msg)
	}
}
