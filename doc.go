// Package figmaslices exports every slice of a Figma file as an image.
//
// The CLI lives in cmd/figma-slices; this root package exposes the same
// pipeline as a Go API so that callers can embed the export in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmaslices:
//
//	import "github.com/kataras/figma-slices" // package figmaslices
//
// # Quick start
//
//	cfg := figmaslices.DefaultConfig()
//	cfg.Format = "png"
//
//	result, err := figmaslices.Run(ctx, figmaslices.Options{
//	    Credentials: figmaslices.Credentials{
//	        AccessToken: os.Getenv("FIGMA_TOKEN"),
//	        FileURL:     "https://www.figma.com/file/ABC123/Icons",
//	    },
//	    Config: cfg,
//	})
//
// # Output
//
// The manifest of all slices is written to <outputDir>/data.json before any
// image is downloaded, so an interrupted run still leaves a complete record.
// Each image lands at <outputDir>/<format>/<slice name>.<format>. The output
// directory may also be a bucket URL such as s3://bucket/prefix.
//
// # Failures
//
// Downloads run at most Config.Concurrency at a time and a failed download
// never stops the others. When some fail, Run still returns the full
// [Result] and an error wrapping [ErrDownloadsFailed].
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
package figmaslices
