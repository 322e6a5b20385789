package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestDirWriteFile(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "build")

	store, err := NewDir(root)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, store.WriteFile(ctx, "data.json", []byte(`{}`)))
	require.NoError(t, store.WriteFile(ctx, "png/Icon A.png", []byte{0x89, 'P', 'N', 'G'}))

	got, err := os.ReadFile(filepath.Join(root, "png", "Icon A.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got)

	got, err = os.ReadFile(filepath.Join(root, "data.json"))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	assert.Equal(t, filepath.Join(root, "svg", "logo.svg"), store.Location("svg/logo.svg"))
}

func TestDirWriteFileOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := NewDir(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.WriteFile(ctx, "jpg/same.jpg", []byte("first")))
	require.NoError(t, store.WriteFile(ctx, "jpg/same.jpg", []byte("second")))

	got, err := os.ReadFile(store.Location("jpg/same.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestDirWriteFileRejectsKeysOutsideRoot(t *testing.T) {
	base := t.TempDir()
	store, err := NewDir(filepath.Join(base, "out"))
	require.NoError(t, err)

	for _, key := range []string{"../escaped.png", "png/../../escaped.png", "/abs.png", ""} {
		assert.Error(t, store.WriteFile(context.Background(), key, []byte("x")), key)
	}

	_, err = os.Stat(filepath.Join(base, "escaped.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewDirFailsOnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewDir(filepath.Join(file, "build"))
	require.Error(t, err)
}

func TestBucketWriteFile(t *testing.T) {
	ctx := context.Background()
	bkt := memblob.OpenBucket(nil)
	store := NewBucket(bkt, "mem://exports")
	defer store.Close()

	require.NoError(t, store.WriteFile(ctx, "svg/logo.svg", []byte("<svg/>")))

	got, err := bkt.ReadAll(ctx, "svg/logo.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(got))

	assert.Equal(t, "mem://exports/svg/logo.svg", store.Location("svg/logo.svg"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, "mem://")
	require.NoError(t, err)
	assert.IsType(t, &Bucket{}, store)
	assert.Equal(t, "mem://png/a.png", store.Location("png/a.png"))
	require.NoError(t, store.Close())

	dir := t.TempDir()
	store, err = Open(ctx, dir)
	require.NoError(t, err)
	assert.IsType(t, &Dir{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, "nosuchscheme://bucket")
	require.Error(t, err)
}

func TestIsBucketURL(t *testing.T) {
	tests := map[string]bool{
		"./build/":            false,
		"/tmp/out":            false,
		`C:\exports`:          false,
		"mem://":              true,
		"s3://assets?region=": true,
		"file:///tmp/out":     true,
	}

	for location, want := range tests {
		assert.Equal(t, want, IsBucketURL(location), location)
	}
}
