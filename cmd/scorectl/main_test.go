package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../internal/rubric/testdata/rubric.csv"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScoreCommandTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello everyone, myself Muskan. I am 13 years old."), 0o600))

	out, err := run(t, "", "score", "--rubric", fixture, "--transcript", path, "--duration", "20", "--no-grammar")
	require.NoError(t, err)
	assert.Contains(t, out, "Keyword Presence")
	assert.Contains(t, out, "Overall:")
	assert.Contains(t, out, "of 100 points")
}

func TestScoreCommandJSONFromStdin(t *testing.T) {
	out, err := run(t, "Hi, my name is Ravi and I love football.", "score", "--rubric", fixture, "--json", "--no-grammar")
	require.NoError(t, err)
	var got struct {
		MaxPoints int `json:"max_points"`
		WordCount int `json:"word_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 100, got.MaxPoints)
	assert.Equal(t, 9, got.WordCount)
}

func TestScoreCommandEmptyTranscript(t *testing.T) {
	_, err := run(t, "   ", "score", "--rubric", fixture, "--no-grammar")
	assert.ErrorContains(t, err, "transcript is empty")
}

func TestRubricCommand(t *testing.T) {
	out, err := run(t, "", "rubric", "--rubric", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "28 rules")
	assert.Contains(t, out, "141 to 160")
	assert.Contains(t, out, ">= 161")
	assert.Contains(t, out, "presence")
}

func TestRubricCommandMissingFile(t *testing.T) {
	_, err := run(t, "", "rubric", "--rubric", filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorContains(t, err, "rubric source not found")
}
