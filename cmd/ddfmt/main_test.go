package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddfmt/internal/model"
	"ddfmt/internal/report"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExampleCommand(t *testing.T) {
	out, err := execute(t, "example", "--format", "yaml")
	require.NoError(t, err)

	info, err := model.DecodeFormat([]byte(out), model.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, model.Example(), info)

	_, err = execute(t, "example", "--format", "xml")
	assert.Error(t, err)
}

func TestRenderAndCheckCommands(t *testing.T) {
	dir := t.TempDir()
	data, err := model.EncodeExample(model.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "input"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input", "info.json"), data, 0o644))

	_, err = execute(t, "--dir", dir)
	require.NoError(t, err)

	post, err := os.ReadFile(filepath.Join(dir, "output", "formatted.md"))
	require.NoError(t, err)
	assert.Equal(t, report.Render(model.Example()), string(post))

	_, err = os.Stat(filepath.Join(dir, "ddfmt.yaml"))
	assert.NoError(t, err, "first run writes the config file")

	out, err := execute(t, "check", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (2023-07-06 to 2023-07-13)")
	assert.Contains(t, out, "stale:")
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "info.json")
	data, err := model.EncodeExample(model.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, data, 0o644))

	dst := filepath.Join(dir, "info.toml")
	_, err = execute(t, "convert", src, dst)
	require.NoError(t, err)

	converted, err := os.ReadFile(dst)
	require.NoError(t, err)
	info, err := model.DecodeFormat(converted, model.FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, model.Example(), info)

	out, err := execute(t, "convert", dst)
	require.NoError(t, err)
	assert.Equal(t, string(data), out)
}

func TestResetsCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "resets", "--dir", dir, "-n", "3")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)

	_, err = execute(t, "resets", "--dir", dir, "-n", "0")
	assert.Error(t, err)
}
