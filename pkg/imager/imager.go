package imager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"go.trai.ch/zerr"

	"github.com/kataras/figma-slices/pkg/figma"
	"github.com/kataras/figma-slices/pkg/queue"
	"github.com/kataras/figma-slices/pkg/slices"
)

// ExportConfig holds configuration for slice export.
type ExportConfig struct {
	Format      string       // "jpg", "png" or "svg"
	Scale       float64      // render scale, ignored by the API for svg
	Concurrency int          // max parallel downloads, default queue.DefaultConcurrency
	HTTPClient  *http.Client // nil = http.DefaultClient
}

// ExportedAsset represents a single downloaded slice image.
type ExportedAsset struct {
	SliceID   string
	SliceName string
	Key       string // store key, e.g. "png/Icon A.png"
	Format    string
	Size      int64
}

// ExportResult holds the results of a download batch.
type ExportResult struct {
	Assets []ExportedAsset
	Errors []error // per-slice download failures
}

// TotalSize returns the sum of all downloaded asset sizes.
func (r *ExportResult) TotalSize() int64 {
	var total int64
	for _, a := range r.Assets {
		total += a.Size
	}
	return total
}

// FileWriter stores downloaded files.
type FileWriter interface {
	WriteFile(ctx context.Context, key string, data []byte) error
}

// URLResolver asks the render API for download URLs.
type URLResolver interface {
	GetImages(ctx context.Context, fileKey string, ids []string, format string, scale float64) (*figma.ImagesResponse, error)
}

var contentTypes = map[string]string{
	"svg": "image/svg+xml",
	"png": "image/png",
	"jpg": "image/jpeg",
}

// ContentType returns the MIME type sent when downloading format.
func ContentType(format string) string {
	return contentTypes[format]
}

// ValidFormat reports whether format can be exported.
func ValidFormat(format string) bool {
	_, ok := contentTypes[format]
	return ok
}

// ErrInvalidSliceName is returned for a slice whose name would place its
// image outside the format directory.
var ErrInvalidSliceName = errors.New("invalid slice name")

// AssetKey returns the store key of a slice image: "<format>/<name>.<format>".
func AssetKey(format, name string) string {
	return path.Join(format, name+"."+format)
}

// checkAssetKey fails when key escapes the "<format>/" directory, as a name
// like "../../x" does once the key is cleaned.
func checkAssetKey(format, key string) error {
	if !strings.HasPrefix(key, format+"/") {
		return fmt.Errorf("%w: key %q leaves the %s directory", ErrInvalidSliceName, key, format)
	}
	return nil
}

// ResolveURLs requests render URLs for every slice in one call and stores
// each returned URL in the matching slice. It returns how many slices got
// a URL; the others keep an empty Image.
func ResolveURLs(ctx context.Context, r URLResolver, fileKey string, m slices.Manifest, config ExportConfig) (int, error) {
	imgResp, err := r.GetImages(ctx, fileKey, m.IDs(), config.Format, config.Scale)
	if err != nil {
		return 0, fmt.Errorf("failed to get images from Figma API: %w", err)
	}

	resolved := 0
	for id, imageURL := range imgResp.Images {
		s, ok := m[id]
		if !ok || imageURL == "" {
			continue
		}
		s.Image = imageURL
		resolved++
	}

	return resolved, nil
}

// Download fetches every slice image through a bounded queue and writes
// it to w. Failures are isolated per slice and returned in the result's
// Errors; the batch always runs to completion.
func Download(ctx context.Context, m slices.Manifest, config ExportConfig, w FileWriter) *ExportResult {
	if config.Concurrency <= 0 {
		config.Concurrency = queue.DefaultConcurrency
	}
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	list := m.Sorted()
	tasks := make([]queue.Task[ExportedAsset], len(list))
	for i, s := range list {
		tasks[i] = func(ctx context.Context) (ExportedAsset, error) {
			return downloadSlice(ctx, client, s, config.Format, w)
		}
	}

	result := &ExportResult{}
	for _, r := range queue.Run(ctx, config.Concurrency, tasks) {
		if r.Err != nil {
			s := list[r.Index]
			err := zerr.Wrap(r.Err, fmt.Sprintf("failed to download slice %s (%s)", s.Name, s.ID))
			result.Errors = append(result.Errors, zerr.With(err, "slice", s.Name))
			continue
		}
		result.Assets = append(result.Assets, r.Value)
	}

	return result
}

// downloadSlice performs an HTTP GET of the slice's render URL and stores the body.
func downloadSlice(ctx context.Context, client *http.Client, s *slices.Slice, format string, w FileWriter) (ExportedAsset, error) {
	if s.Image == "" {
		return ExportedAsset{}, fmt.Errorf("no image URL returned for node %s", s.ID)
	}

	key := AssetKey(format, s.Name)
	if err := checkAssetKey(format, key); err != nil {
		return ExportedAsset{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Image, nil)
	if err != nil {
		return ExportedAsset{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", ContentType(format))

	resp, err := client.Do(req)
	if err != nil {
		return ExportedAsset{}, fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ExportedAsset{}, fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ExportedAsset{}, fmt.Errorf("failed to read image body: %w", err)
	}

	if err := w.WriteFile(ctx, key, body); err != nil {
		return ExportedAsset{}, err
	}

	return ExportedAsset{
		SliceID:   s.ID,
		SliceName: s.Name,
		Key:       key,
		Format:    format,
		Size:      int64(len(body)),
	}, nil
}
