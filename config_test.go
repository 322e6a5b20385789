package figmaslices

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, Config{Format: "jpg", OutputDir: "./build/", Scale: 1, Concurrency: 3}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestConfigApplyArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Config
		wantErr bool
	}{
		{
			name: "no args keeps defaults",
			want: DefaultConfig(),
		},
		{
			name: "all keys",
			args: []string{"format=svg", "outputDir=./assets", "scale=2.5", "concurrency=8"},
			want: Config{Format: "svg", OutputDir: "./assets", Scale: 2.5, Concurrency: 8},
		},
		{
			name: "unknown keys and bare words are ignored",
			args: []string{"verbose=true", "png", "format=png"},
			want: Config{Format: "png", OutputDir: "./build/", Scale: 1, Concurrency: 3},
		},
		{
			name: "value may contain equals sign",
			args: []string{"outputDir=s3://bucket?region=eu-west-1"},
			want: Config{Format: "jpg", OutputDir: "s3://bucket?region=eu-west-1", Scale: 1, Concurrency: 3},
		},
		{
			name:    "invalid scale",
			args:    []string{"scale=big"},
			wantErr: true,
		},
		{
			name:    "invalid concurrency",
			args:    []string{"concurrency=1.5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ApplyArgs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unsupported format", func(c *Config) { c.Format = "pdf" }},
		{"empty format", func(c *Config) { c.Format = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"negative scale", func(c *Config) { c.Scale = -1 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figma-slices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: png\nscale: 2\n"), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadConfigFile(path))
	assert.Equal(t, Config{Format: "png", OutputDir: "./build/", Scale: 2, Concurrency: 3}, cfg)

	require.Error(t, cfg.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))

	require.NoError(t, os.WriteFile(path, []byte("format: [png\n"), 0644))
	require.Error(t, cfg.LoadConfigFile(path))
}

func TestCredentialsFromEnv(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(key string) string { return vars[key] }
	}

	creds, err := CredentialsFromEnv(env(map[string]string{
		EnvToken:   "token",
		EnvFileURL: "https://www.figma.com/file/ABC/Icons",
	}))
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessToken: "token", FileURL: "https://www.figma.com/file/ABC/Icons"}, creds)

	_, err = CredentialsFromEnv(env(map[string]string{EnvFileURL: "https://www.figma.com/file/ABC/Icons"}))
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = CredentialsFromEnv(env(map[string]string{EnvToken: "token"}))
	assert.ErrorIs(t, err, ErrMissingFileURL)
}
