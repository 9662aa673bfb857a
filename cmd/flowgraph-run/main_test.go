package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExitOnHelp(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage")
}

func TestRun_RequiresGraphDir(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{})
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok, "expected an *ExitError")
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "-graph-dir is required")
}

func TestRun_RejectsInvalidPayload(t *testing.T) {
	dir := t.TempDir()
	out := &bytes.Buffer{}
	err := run(out, []string{"-graph-dir", dir, "-payload", "{not json"})
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_LoadsAndExecutesGraph(t *testing.T) {
	dir := t.TempDir()
	hcl := `
node "printer" {
  func = "printer"
}

start = "printer"
end   = "printer"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(hcl), 0o600))

	out := &bytes.Buffer{}
	err := run(out, []string{"-graph-dir", dir, "-payload", `{"a":1}`})
	require.NoError(t, err)
	require.True(t, strings.Contains(out.String(), "a"), "expected the echoed payload in the printed result")
}

func TestRun_ReportsUnresolvedGraphDir(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{"-graph-dir", filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	require.Equal(t, 1, exitErr.Code)
}
