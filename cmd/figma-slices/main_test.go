package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	figmaslices "github.com/kataras/figma-slices"
)

func TestBuildConfigDefaults(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := buildConfig(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, figmaslices.DefaultConfig(), cfg)
}

func TestBuildConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: svg\nconcurrency: 5\noutputDir: ./from-file\n"), 0644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--scale", "2"}))

	cfg, err := buildConfig(cmd, []string{"format=png", "scale=3", "outputDir=./from-args"})
	require.NoError(t, err)
	assert.Equal(t, figmaslices.Config{
		Format:      "png",
		OutputDir:   "./from-args",
		Scale:       2,
		Concurrency: 5,
	}, cfg)
}

func TestBuildConfigInvalid(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--format", "gif"}))

	_, err := buildConfig(cmd, nil)
	require.Error(t, err)

	cmd = newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	_, err = buildConfig(cmd, []string{"scale=-1"})
	require.Error(t, err)
}
