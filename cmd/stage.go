package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jsonflake/internal/config"
	"jsonflake/internal/loader/snowflake"
	"jsonflake/internal/observability"
	"jsonflake/internal/pipeline"
	"jsonflake/internal/ui"
	"jsonflake/pkg/errors"
	"jsonflake/pkg/models"
)

// stageClient is a connected Snowflake session used for stage access
type stageClient interface {
	pipeline.Stage
	Close() error
}

// openStage connects to Snowflake; tests replace it
var openStage = func(ctx context.Context, cfg models.Snowflake, log *observability.Logger) (stageClient, error) {
	s := snowflake.NewService(cfg, log)
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Inspect Snowflake internal stages",
}

var stageListCmd = &cobra.Command{
	Use:   "list @STAGE",
	Short: "List the JSON, JSONL and NDJSON files on a stage",
	Args:  cobra.ExactArgs(1),
	RunE:  runStageList,
}

func init() {
	rootCmd.AddCommand(stageCmd)
	stageCmd.AddCommand(stageListCmd)
}

func runStageList(cmd *cobra.Command, args []string) error {
	stage := args[0]
	if err := snowflake.ValidateStage(stage); err != nil {
		return err
	}

	cfg := commandConfig(cmd, nil)
	if err := config.ResolvePassword(&cfg.Snowflake); err != nil {
		return errors.Wrap(err, errors.ErrCodeCredentials, "Failed to read Snowflake password")
	}

	client, err := openStage(cmd.Context(), cfg.Snowflake, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	files, err := client.ListStageFiles(cmd.Context(), stage)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		say(cmd, ui.ShowWarning, fmt.Sprintf("no JSON files on %s", stage))
		return nil
	}
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}
