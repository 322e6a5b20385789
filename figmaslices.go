package figmaslices

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kataras/figma-slices/pkg/figma"
	"github.com/kataras/figma-slices/pkg/imager"
	"github.com/kataras/figma-slices/pkg/slices"
	"github.com/kataras/figma-slices/pkg/storage"
)

// Version is the current release.
const Version = "0.1.0"

// ErrDownloadsFailed is returned by Run, together with a complete Result,
// when at least one slice could not be downloaded.
var ErrDownloadsFailed = errors.New("some slices failed to download")

// Options configures the export.
type Options struct {
	Credentials
	Config Config

	Logger Logger // nil = no logging

	// Store overrides the destination opened from Config.OutputDir.
	Store storage.Store
	// APIBaseURL overrides the Figma API root, e.g. for tests.
	APIBaseURL string
	// HTTPClient is used for the image downloads. nil = http.DefaultClient.
	HTTPClient *http.Client
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the export output.
type Result struct {
	FileKey  string
	FileName string // Figma file name
	Manifest slices.Manifest
	Export   *imager.ExportResult
	// ManifestLocation is where the manifest was written.
	ManifestLocation string
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// fail logs err as the reason the export stopped and returns it.
func (o *Options) fail(err error) (*Result, error) {
	o.logError("%v", err)
	return nil, err
}

// Run executes the slice export pipeline: fetch the document, collect the
// slices, resolve their render URLs, write the manifest and download every
// slice image.
//
// Configuration errors are reported before any network call. Every error
// that stops the pipeline is also passed to Logger.Errorf. A failed
// download does not stop the others; once all downloads have settled, Run
// returns the full Result along with an error wrapping ErrDownloadsFailed.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.AccessToken == "" {
		return opts.fail(ErrMissingToken)
	}
	if err := opts.Config.Validate(); err != nil {
		return opts.fail(err)
	}

	opts.logInfo("Extracting file key from URL...")
	fileKey, err := figma.ExtractFileKey(opts.FileURL)
	if err != nil {
		return opts.fail(fmt.Errorf("extract file key: %w", err))
	}
	opts.logInfo("File key: %s", fileKey)

	var clientOpts []figma.Option
	if opts.APIBaseURL != "" {
		clientOpts = append(clientOpts, figma.WithBaseURL(opts.APIBaseURL))
	}
	client := figma.NewClient(opts.AccessToken, clientOpts...)

	opts.logInfo("Exporting %s slices", opts.FileURL)
	fileResp, err := client.GetFile(ctx, fileKey)
	if err != nil {
		return opts.fail(fmt.Errorf("fetch file: %w", err))
	}
	opts.logInfo("File: %s", fileResp.Name)

	opts.logInfo("Processing response...")
	manifest, err := slices.Collect(&fileResp.Document, fileKey)
	if err != nil {
		return opts.fail(err)
	}
	opts.logInfo("%d slices found in the Figma file", len(manifest))

	config := imager.ExportConfig{
		Format:      opts.Config.Format,
		Scale:       opts.Config.Scale,
		Concurrency: opts.Config.Concurrency,
		HTTPClient:  opts.HTTPClient,
	}

	opts.logInfo("Getting export urls...")
	resolved, err := imager.ResolveURLs(ctx, client, fileKey, manifest, config)
	if err != nil {
		return opts.fail(fmt.Errorf("resolve export urls: %w", err))
	}
	if missing := len(manifest) - resolved; missing > 0 {
		opts.logWarn("%d slice(s) have no render URL", missing)
	}

	store := opts.Store
	if store == nil {
		store, err = storage.Open(ctx, opts.Config.OutputDir)
		if err != nil {
			return opts.fail(err)
		}
		defer store.Close()
	}

	if err := slices.WriteManifest(ctx, store, manifest); err != nil {
		return opts.fail(err)
	}
	opts.logInfo("Wrote %s", store.Location(slices.ManifestFile))

	opts.logInfo("Downloading %d slice(s), %d at a time...", len(manifest), config.Concurrency)
	export := imager.Download(ctx, manifest, config, store)
	for _, dlErr := range export.Errors {
		opts.logWarn("%v", dlErr)
	}
	opts.logInfo("Exported %d image(s)", len(export.Assets))

	result := &Result{
		FileKey:          fileKey,
		FileName:         fileResp.Name,
		Manifest:         manifest,
		Export:           export,
		ManifestLocation: store.Location(slices.ManifestFile),
	}

	if len(export.Errors) > 0 {
		return result, fmt.Errorf("%w: %d of %d: %w",
			ErrDownloadsFailed, len(export.Errors), len(manifest), errors.Join(export.Errors...))
	}
	return result, nil
}
