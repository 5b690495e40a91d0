package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jsonflake/internal/pipeline"
	"jsonflake/internal/ui"
	"jsonflake/pkg/errors"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE",
	Short: "Flatten a JSON or NDJSON file into tables",
	Long: `Normalize a JSON document, a JSON array of records or an NDJSON file
into relational tables.

With --format table (the default) a summary of the tables is printed. With
--format json every row is printed as a {"table": ..., "row": {...}} line,
or written to <DIR>/<TABLE>.ndjson when --out is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().String("root", "", "root table name (default: file name)")
	normalizeCmd.Flags().StringP("format", "f", "table", "output format: table or json")
	normalizeCmd.Flags().StringP("out", "o", "", "directory for per-table NDJSON files (json format)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg := commandConfig(cmd, map[string]string{"root": "normalize.root"})
	format, _ := cmd.Flags().GetString("format")
	outDir, _ := cmd.Flags().GetString("out")

	format = strings.ToLower(format)
	if format != "table" && format != "json" {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown format %q", format)).
			WithSuggestions("Use --format table or --format json")
	}

	res, err := pipeline.ProcessFile(args[0], pipeline.Options{Root: cfg.Normalize.Root, Logger: logger})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.Empty() {
		say(cmd, ui.ShowWarning, "nothing to process")
		return nil
	}

	switch {
	case format == "table":
		if !quiet() {
			ui.ShowHeader(out, res.Root)
			ui.PrintKeyValue(out, "records", fmt.Sprint(res.Records))
			ui.PrintKeyValue(out, "tables", fmt.Sprint(res.Tables.Len()))
			fmt.Fprintln(out)
		}
		ui.TableSummary(out, res.Tables)

	case outDir != "":
		files, err := pipeline.ExportNDJSON(outDir, res.Tables)
		if err != nil {
			return err
		}
		say(cmd, ui.ShowSuccess, fmt.Sprintf("wrote %d files to %s", len(files), outDir))

	default:
		return pipeline.WriteTables(out, res.Tables)
	}
	return nil
}
