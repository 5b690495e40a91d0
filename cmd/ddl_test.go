package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonflake/pkg/errors"
)

func TestDDL_Stdout(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "people.json", `{"name": "Ann", "tags": ["a"]}`)

	out, err := executeCommand(t, "ddl", path, "--dialect", "postgres")
	require.NoError(t, err)
	assert.Equal(t, `DROP TABLE IF EXISTS "PEOPLE_TAGS";
CREATE TABLE "PEOPLE_TAGS" (
  "ID" NUMERIC,
  "PEOPLE_ID" NUMERIC,
  "VALUE" TEXT
);

DROP TABLE IF EXISTS "PEOPLE";
CREATE TABLE "PEOPLE" (
  "ID" NUMERIC,
  "NAME" TEXT
);
`, out)
}

func TestDDL_UnknownDialect(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "people.json", `{"name": "Ann"}`)

	_, err := executeCommand(t, "ddl", path, "--dialect", "oracle")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetErrorCode(err))
}

func TestDDL_WriteAndCommit(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "people.json", `{"name": "Ann", "age": 41}`)
	outDir := filepath.Join(dir, "ddl")

	out, err := executeCommand(t, "ddl", path, "--out", outDir, "--commit", "-m", "Add people")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 files")
	assert.Contains(t, out, "committed")

	data, err := os.ReadFile(filepath.Join(outDir, "PEOPLE.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"AGE" NUMBER`)

	repo, err := git.PlainOpen(outDir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Add people", commit.Message)
	assert.Equal(t, "jsonflake", commit.Author.Name)

	out, err = executeCommand(t, "ddl", path, "--out", outDir, "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to commit")
}

func TestDDL_CommitNeedsDirectory(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "people.json", `{"name": "Ann"}`)

	_, err := executeCommand(t, "ddl", path, "--commit")
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetErrorCode(err))
}
