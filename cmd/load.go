package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jsonflake/internal/config"
	"jsonflake/internal/loader"
	"jsonflake/internal/loader/snowflake"
	"jsonflake/internal/pipeline"
	"jsonflake/internal/ui"
	"jsonflake/pkg/errors"
	"jsonflake/pkg/models"

	_ "jsonflake/internal/loader/mysql"
	_ "jsonflake/internal/loader/postgres"
	_ "jsonflake/internal/loader/sqlite"
	_ "jsonflake/internal/loader/sqlserver"
)

// selectStageFile asks which stage file to load; tests replace it
var selectStageFile = ui.SelectFile

var loadCmd = &cobra.Command{
	Use:   "load [FILE]",
	Short: "Normalize a JSON file and load the tables into a database",
	Long: `Normalize a local file, or a file on a Snowflake stage, and load the
resulting tables. Every table is replaced: it is dropped (or created with
CREATE OR REPLACE) and then filled with batched INSERTs.

The target is Snowflake unless --target names an entry of the targets list
in the config file.

Examples:
  jsonflake load orders.json
  jsonflake load orders.ndjson --target local-pg --parallel 8
  jsonflake load --stage @RAW.JSON.LANDING --file 2024/orders.json
  jsonflake load --stage @RAW.JSON.LANDING`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().String("root", "", "root table name (default: file name)")
	loadCmd.Flags().String("stage", "", "read the input from this Snowflake stage")
	loadCmd.Flags().String("file", "", "file on the stage (prompted when empty)")
	loadCmd.Flags().StringP("target", "t", "snowflake", "snowflake or the name of a configured target")
	loadCmd.Flags().IntP("parallel", "p", models.DefaultParallelism, "tables loaded at once")
	loadCmd.Flags().Int("batch-size", models.DefaultBatchSize, "rows per INSERT statement")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := commandConfig(cmd, map[string]string{
		"root":       "normalize.root",
		"parallel":   "normalize.parallelism",
		"batch-size": "normalize.batch_size",
	})
	stage, _ := cmd.Flags().GetString("stage")
	stageFile, _ := cmd.Flags().GetString("file")
	targetName, _ := cmd.Flags().GetString("target")

	if (len(args) == 1) == (stage != "") {
		return errors.New(errors.ErrCodeInvalidInput, "give either a FILE or --stage").
			WithSuggestions("jsonflake load data.json", "jsonflake load --stage @MY_STAGE --file data.json")
	}

	targetCfg, err := resolveTarget(cfg, targetName)
	if err != nil {
		return err
	}
	if targetCfg.Kind == "snowflake" || stage != "" {
		if err := config.ResolvePassword(&cfg.Snowflake); err != nil {
			return errors.Wrap(err, errors.ErrCodeCredentials, "Failed to read Snowflake password")
		}
		targetCfg.Snowflake = cfg.Snowflake
	}

	ctx := cmd.Context()
	opts := pipeline.Options{Root: cfg.Normalize.Root, Logger: logger}

	var (
		res    *pipeline.Result
		reused loader.Target
	)
	if stage != "" {
		client, err := openStage(ctx, cfg.Snowflake, logger)
		if err != nil {
			return err
		}
		defer client.Close()

		res, err = fromStage(ctx, cmd, client, stage, stageFile, opts)
		if err != nil {
			return err
		}
		if t, ok := client.(loader.Target); ok && targetCfg.Kind == "snowflake" {
			reused = t
		}
	} else {
		res, err = pipeline.ProcessFile(args[0], opts)
		if err != nil {
			return err
		}
	}

	if res.Empty() {
		say(cmd, ui.ShowWarning, "nothing to process")
		return nil
	}

	target := reused
	if target == nil {
		target, err = loader.Open(ctx, targetCfg)
		if err != nil {
			return err
		}
		defer target.Close()
	}

	out := cmd.OutOrStdout()
	spinner := ui.NewSpinner(out, fmt.Sprintf("loading %d tables into %s", res.Tables.Len(), targetName))
	if !quiet() {
		spinner.Start()
	}
	report, err := pipeline.Load(ctx, target, res, loader.Options{
		BatchSize:   cfg.Normalize.BatchSize,
		Parallelism: cfg.Normalize.Parallelism,
		Logger:      logger.WithField("source", res.Source),
	})
	if !quiet() {
		spinner.Stop(err == nil, fmt.Sprintf("%s -> %s", res.Source, targetName))
	}
	ui.LoadSummary(out, report)
	return err
}

// resolveTarget maps --target to a loader configuration
func resolveTarget(cfg *models.Config, name string) (loader.Config, error) {
	if name == "" || strings.EqualFold(name, "snowflake") {
		return loader.Config{Kind: "snowflake", Logger: logger}, nil
	}
	t, ok := cfg.FindTarget(name)
	if !ok {
		names := make([]string, 0, len(cfg.Targets))
		for _, t := range cfg.Targets {
			names = append(names, t.Name)
		}
		return loader.Config{}, errors.New(errors.ErrCodeUnknownTarget, fmt.Sprintf("unknown target %q", name)).
			WithContext("configured", strings.Join(names, ", ")).
			WithSuggestions("Add it under targets: in the config file", "Use --target snowflake")
	}
	return loader.Config{Kind: t.Kind, DSN: t.DSN, Logger: logger}, nil
}

func fromStage(ctx context.Context, cmd *cobra.Command, client stageClient, stage, file string, opts pipeline.Options) (*pipeline.Result, error) {
	if err := snowflake.ValidateStage(stage); err != nil {
		return nil, err
	}
	if file == "" {
		files, err := client.ListStageFiles(ctx, stage)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, errors.New(errors.ErrCodeStageEmpty, fmt.Sprintf("no JSON files on %s", stage)).
				WithSuggestions("Upload files with PUT file://data.json " + stage)
		}
		file, err = selectStageFile(fmt.Sprintf("File on %s:", stage), files)
		if err != nil {
			return nil, err
		}
	}
	say(cmd, ui.ShowInfo, fmt.Sprintf("downloading %s from %s", file, stage))
	return pipeline.ProcessStageFile(ctx, client, stage, file, opts)
}
