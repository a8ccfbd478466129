package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFlagsOverrideConfigOnlyWhenSet(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\ndpi: 200\n"), 0o644))

	f := &flags{}
	cmd := buildRootCmd(f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--dpi", "150", "--lang", "eng,fra", "--no-progress"}))

	cfg, err := loadConfig(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers, "file value kept")
	assert.Equal(t, 150, cfg.DPI)
	assert.Equal(t, []string{"eng", "fra"}, cfg.Languages)
	assert.False(t, cfg.Progress)
	assert.True(t, cfg.Preflight)
}

func TestInvalidFlagValue(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "--workers", "0", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestZeroThresholdIsRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "--min-doc-length", "0", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_doc_length must be >= 1")
}

func TestPreviewListsUnreadableDocuments(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.pdf"), []byte("not a pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	out, err := execute(t, "preview", "--no-color", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "unreadable "+filepath.Join(dir, "bad.pdf"))
	assert.NotContains(t, out, "notes.txt")
	assert.NoDirExists(t, filepath.Join(dir, "Converted"), "preview writes nothing")
}

func TestPreviewJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := execute(t, "preview", "--json", t.TempDir())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestConvertRefusesExistingOutput(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Converted"), 0o755))

	_, err := execute(t, "--no-progress", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory already exists")
}
