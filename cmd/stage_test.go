package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonflake/pkg/errors"
)

func TestStageList(t *testing.T) {
	isolate(t)
	client := &fakeStageClient{files: []string{"a.json", "sub/b.ndjson"}}
	stubStage(t, client)

	out, err := executeCommand(t, "stage", "list", "@LANDING")
	require.NoError(t, err)
	assert.Equal(t, "a.json\nsub/b.ndjson\n", out)
	assert.True(t, client.closed)
}

func TestStageList_Empty(t *testing.T) {
	isolate(t)
	stubStage(t, &fakeStageClient{})

	out, err := executeCommand(t, "stage", "list", "@LANDING")
	require.NoError(t, err)
	assert.Contains(t, out, "no JSON files on @LANDING")
}

func TestStageList_InvalidReference(t *testing.T) {
	isolate(t)
	_, err := executeCommand(t, "stage", "list", "LANDING")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetErrorCode(err))
}
