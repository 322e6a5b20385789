package figmaslices

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kataras/figma-slices/pkg/imager"
	"github.com/kataras/figma-slices/pkg/queue"
)

// Environment variables holding the credentials.
const (
	EnvToken   = "FIGMA_TOKEN"
	EnvFileURL = "FIGMA_FILE_URL"
)

var (
	// ErrMissingToken is returned when no personal access token is configured.
	ErrMissingToken = errors.New("cannot find " + EnvToken + " in environment")
	// ErrMissingFileURL is returned when no Figma file URL is configured.
	ErrMissingFileURL = errors.New("cannot find " + EnvFileURL + " in environment")
)

// Config is the run configuration. It is built once at startup and passed
// by value to the pipeline.
type Config struct {
	Format      string  `yaml:"format"`      // jpg, png or svg
	OutputDir   string  `yaml:"outputDir"`   // local directory or bucket URL
	Scale       float64 `yaml:"scale"`       // render scale, > 0
	Concurrency int     `yaml:"concurrency"` // parallel downloads, >= 1
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Format:      "jpg",
		OutputDir:   "./build/",
		Scale:       1,
		Concurrency: queue.DefaultConcurrency,
	}
}

// ApplyArgs overrides fields from "key=value" arguments, e.g.
// "format=png outputDir=./assets scale=2". Arguments naming an unknown key
// or without "=" are ignored.
func (c *Config) ApplyArgs(args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}

		switch key {
		case "format":
			c.Format = value
		case "outputDir":
			c.OutputDir = value
		case "scale":
			s, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid scale value %q: %w", value, err)
			}
			c.Scale = s
		case "concurrency":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid concurrency value %q: %w", value, err)
			}
			c.Concurrency = n
		}
	}

	return nil
}

// LoadConfigFile overlays the fields set in a YAML file onto c.
func (c *Config) LoadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if !imager.ValidFormat(c.Format) {
		return fmt.Errorf("invalid image format %q (must be jpg, png or svg)", c.Format)
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale value must be positive, got %g", c.Scale)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// Credentials identify the Figma file to export and authorize the requests.
type Credentials struct {
	AccessToken string
	FileURL     string
}

// CredentialsFromEnv reads the credentials through getenv, usually os.Getenv.
func CredentialsFromEnv(getenv func(string) string) (Credentials, error) {
	creds := Credentials{
		AccessToken: getenv(EnvToken),
		FileURL:     getenv(EnvFileURL),
	}

	if creds.AccessToken == "" {
		return creds, ErrMissingToken
	}
	if creds.FileURL == "" {
		return creds, ErrMissingFileURL
	}
	return creds, nil
}
