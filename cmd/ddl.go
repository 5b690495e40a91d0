package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jsonflake/internal/ddl"
	"jsonflake/internal/pipeline"
	"jsonflake/internal/publish"
	"jsonflake/internal/ui"
	"jsonflake/pkg/errors"
)

var ddlCmd = &cobra.Command{
	Use:   "ddl FILE",
	Short: "Generate CREATE TABLE statements for a JSON file",
	Long: `Infer a column type for every field of the normalized tables and print
the DDL that creates them.

With --out one <TABLE>.sql file per table is written to the directory, and
--commit records the files in a git repository there (created if missing).`,
	Args: cobra.ExactArgs(1),
	RunE: runDDL,
}

func init() {
	rootCmd.AddCommand(ddlCmd)

	ddlCmd.Flags().String("root", "", "root table name (default: file name)")
	ddlCmd.Flags().StringP("dialect", "d", "snowflake", "SQL dialect: "+strings.Join(ddl.DialectNames(), ", "))
	ddlCmd.Flags().StringP("out", "o", "", "directory for <TABLE>.sql files (default publish.dir)")
	ddlCmd.Flags().Bool("commit", false, "commit the written files with git")
	ddlCmd.Flags().StringP("message", "m", "", "commit message")
}

func runDDL(cmd *cobra.Command, args []string) error {
	cfg := commandConfig(cmd, map[string]string{
		"root": "normalize.root",
		"out":  "publish.dir",
	})
	dialectName, _ := cmd.Flags().GetString("dialect")
	commit, _ := cmd.Flags().GetBool("commit")
	message, _ := cmd.Flags().GetString("message")

	dialect, err := ddl.LookupDialect(dialectName)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "Unknown SQL dialect").
			WithSuggestions("Supported dialects: " + strings.Join(ddl.DialectNames(), ", "))
	}

	res, err := pipeline.ProcessFile(args[0], pipeline.Options{
		Root:    cfg.Normalize.Root,
		Dialect: dialect,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	if res.Empty() {
		say(cmd, ui.ShowWarning, "nothing to process")
		return nil
	}

	out := cmd.OutOrStdout()
	dir := cfg.Publish.Dir
	if dir == "" {
		if commit {
			return errors.ConfigError("--commit needs an output directory", "publish.dir").
				WithSuggestions("Pass --out DIR or set publish.dir in the config file")
		}
		for i, stmt := range res.Statements {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprint(out, stmt.Script())
		}
		return nil
	}

	p := publish.New(dir, cfg.Publish, logger)
	files, err := p.Write(res.Statements)
	if err != nil {
		return err
	}
	say(cmd, ui.ShowSuccess, fmt.Sprintf("wrote %d files to %s", len(files), dir))

	if !commit {
		return nil
	}
	if message == "" {
		message = fmt.Sprintf("Update %s DDL for %s", dialect.Name, res.Root)
	}
	hash, err := p.Commit(message, files)
	if err != nil {
		return err
	}
	if hash == "" {
		say(cmd, ui.ShowInfo, "DDL unchanged, nothing to commit")
		return nil
	}
	say(cmd, ui.ShowSuccess, fmt.Sprintf("committed %s", hash[:7]))
	return nil
}
