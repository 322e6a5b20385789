// Package storage writes exported files either to a local directory or to
// an object-storage bucket.
//
// An output location containing "://" is opened as a gocloud.dev bucket URL
// (mem://, file://, s3://, gs://, ...), anything else is a local directory.
// Keys are always slash-separated, e.g. "png/Icon A.png".
//
// Bucket drivers register themselves by import; the CLI links the s3, gcs,
// file and memory drivers.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
)

// Store is the destination of one export run.
type Store interface {
	// WriteFile stores data under key, creating intermediate directories
	// where the backend has them.
	WriteFile(ctx context.Context, key string, data []byte) error
	// Location describes where key ends up, for reporting.
	Location(key string) string
	Close() error
}

// Open returns the store for outputDir.
func Open(ctx context.Context, outputDir string) (Store, error) {
	if IsBucketURL(outputDir) {
		return OpenBucket(ctx, outputDir)
	}
	return NewDir(outputDir)
}

// IsBucketURL reports whether location is a bucket URL rather than a path.
func IsBucketURL(location string) bool {
	return strings.Contains(location, "://")
}

// Dir stores files below a local root directory.
type Dir struct {
	root string
}

var _ Store = (*Dir)(nil)

// NewDir creates root if needed and returns a store writing into it.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", root, err)
	}
	return &Dir{root: root}, nil
}

// WriteFile writes data to root/key, creating the parent directory first.
// Keys that would resolve outside root are rejected.
// Concurrent writers to the same key race; the last one wins.
func (d *Dir) WriteFile(_ context.Context, key string, data []byte) error {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return fmt.Errorf("key %q is not inside %q", key, d.root)
	}
	dest := d.Location(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %q: %w", dest, err)
	}
	return nil
}

// Location returns the file path of key.
func (d *Dir) Location(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}

// Close is a no-op.
func (d *Dir) Close() error {
	return nil
}

// Bucket stores files as objects of a gocloud.dev bucket.
type Bucket struct {
	url    string
	bucket *blob.Bucket
}

var _ Store = (*Bucket)(nil)

// OpenBucket opens the bucket at bucketURL.
func OpenBucket(ctx context.Context, bucketURL string) (*Bucket, error) {
	bkt, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %q: %w", bucketURL, err)
	}
	return &Bucket{url: bucketURL, bucket: bkt}, nil
}

// NewBucket wraps an already opened bucket; closing the store closes bkt.
func NewBucket(bkt *blob.Bucket, name string) *Bucket {
	return &Bucket{url: name, bucket: bkt}
}

// WriteFile uploads data as the object key.
func (b *Bucket) WriteFile(ctx context.Context, key string, data []byte) error {
	if err := b.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return fmt.Errorf("write object %q: %w", key, err)
	}
	return nil
}

// Location returns the bucket URL joined with key.
func (b *Bucket) Location(key string) string {
	base := b.url
	if i := strings.Index(base, "?"); i >= 0 {
		base = base[:i]
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path.Clean(key)
}

// Close closes the underlying bucket.
func (b *Bucket) Close() error {
	return b.bucket.Close()
}
