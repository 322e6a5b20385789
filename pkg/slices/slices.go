// Package slices collects the SLICE nodes of a Figma document and keeps
// their metadata as the export manifest.
package slices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/kataras/figma-slices/pkg/figma"
)

// ManifestFile is the name of the manifest written at the root of the output.
const ManifestFile = "data.json"

// ErrNoSlices is returned by Collect when the document holds no SLICE node.
var ErrNoSlices = errors.New("no slices found")

// Slice is a named export region of a Figma file.
type Slice struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	File   string  `json:"file"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Image  string  `json:"image,omitempty"` // render URL, set once resolved
}

// Manifest maps slice IDs to their metadata.
type Manifest map[string]*Slice

// IDs returns the slice IDs in ascending order.
func (m Manifest) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sorted returns the slices ordered by ID.
func (m Manifest) Sorted() []*Slice {
	list := make([]*Slice, 0, len(m))
	for _, id := range m.IDs() {
		list = append(list, m[id])
	}
	return list
}

// Encode serializes the manifest as a compact JSON object keyed by slice ID.
func (m Manifest) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

// Collect walks the document tree below root and returns every SLICE node,
// keyed by ID. A SLICE node is recorded as-is and its children, if any, are
// not visited. It returns ErrNoSlices when nothing was found.
func Collect(root *figma.Node, fileKey string) (Manifest, error) {
	m := make(Manifest)
	for i := range root.Children {
		collect(&root.Children[i], fileKey, m)
	}

	if len(m) == 0 {
		return nil, ErrNoSlices
	}
	return m, nil
}

func collect(node *figma.Node, fileKey string, m Manifest) {
	if node.Type == figma.NodeTypeSlice {
		s := &Slice{
			ID:   node.ID,
			Name: node.Name,
			File: fileKey,
		}
		if box := node.AbsoluteBoundingBox; box != nil {
			s.Width = box.Width
			s.Height = box.Height
		}
		m[node.ID] = s
		return
	}

	for i := range node.Children {
		collect(&node.Children[i], fileKey, m)
	}
}

// FileWriter stores a blob of data under a slash-separated key.
type FileWriter interface {
	WriteFile(ctx context.Context, key string, data []byte) error
}

// WriteManifest writes the whole manifest to ManifestFile.
func WriteManifest(ctx context.Context, w FileWriter, m Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	if err := w.WriteFile(ctx, ManifestFile, data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
