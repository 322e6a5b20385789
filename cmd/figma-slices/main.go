package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	figmaslices "github.com/kataras/figma-slices"
	"github.com/kataras/figma-slices/pkg/formatter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

const version = figmaslices.Version

var (
	format      string
	outputDir   string
	scale       float64
	concurrency int
	configFile  string
	reportFile  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := figmaslices.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "figma-slices [key=value ...]",
		Short: "Export the slices of a Figma file as images",
		Long: `Download every slice of a Figma file as an image and write a data.json manifest.

The file and the access token are read from the FIGMA_FILE_URL and FIGMA_TOKEN
environment variables. Options may be given as key=value arguments
(format, outputDir, scale, concurrency) or as flags; flags win.`,
		Example: "  FIGMA_TOKEN=... FIGMA_FILE_URL=https://www.figma.com/file/ABC123/Icons figma-slices format=png outputDir=./assets",
		Args:    cobra.ArbitraryArgs,
		Run:     run,
	}

	rootCmd.Flags().StringVarP(&format, "format", "f", defaults.Format, "Image format: jpg, png, svg")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", defaults.OutputDir, "Output directory or bucket URL (s3://, gs://, file://)")
	rootCmd.Flags().Float64VarP(&scale, "scale", "s", defaults.Scale, "Render scale")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", defaults.Concurrency, "Maximum parallel downloads")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML file with format, outputDir, scale and concurrency")
	rootCmd.Flags().StringVar(&reportFile, "report", "", "Write a markdown export report to this file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-slices version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n✂  Figma Slices Exporter")
	cyan.Println("========================")
	cyan.Println()

	creds, err := figmaslices.CredentialsFromEnv(os.Getenv)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := figmaslices.Run(ctx, figmaslices.Options{
		Credentials: creds,
		Config:      cfg,
		Logger:      &cliLogger{},
	})
	if result == nil {
		// cliLogger already printed err.
		os.Exit(1)
	}

	cyan.Println("\n📊 Export Summary:")
	fmt.Printf("  • Slices: %d\n", len(result.Manifest))
	fmt.Printf("  • Downloaded: %d (%s)\n", len(result.Export.Assets), humanize.Bytes(uint64(result.Export.TotalSize())))
	fmt.Printf("  • Manifest: %s\n", result.ManifestLocation)
	if n := len(result.Export.Errors); n > 0 {
		fmt.Printf("  • Failed: %d\n", n)
	}

	if reportFile != "" {
		green.Printf("\n💾 Writing report to %s... ", reportFile)
		report := formatter.ToMarkdown(result.FileName, result.Manifest, cfg.Format, result.Export)
		if werr := os.WriteFile(reportFile, []byte(report), 0644); werr != nil {
			red.Printf("✗\n")
			red.Printf("Error: %v\n", werr)
			os.Exit(1)
		}
		green.Println("✓")
	}

	if err != nil {
		if errors.Is(err, figmaslices.ErrDownloadsFailed) {
			red.Printf("\n✗ %d slice(s) failed to download\n\n", len(result.Export.Errors))
		} else {
			red.Printf("\nError: %v\n\n", err)
		}
		os.Exit(1)
	}

	green.Printf("\n✨ Successfully exported %d slice(s) to %s\n\n", len(result.Export.Assets), cfg.OutputDir)
}

// buildConfig layers the defaults, the optional config file, the key=value
// arguments and finally the flags the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (figmaslices.Config, error) {
	cfg := figmaslices.DefaultConfig()

	if configFile != "" {
		if err := cfg.LoadConfigFile(configFile); err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyArgs(args); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrency
	}

	return cfg, cfg.Validate()
}

// cliLogger implements figmaslices.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
