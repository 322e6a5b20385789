package figma

// Node types the exporter cares about.
const (
	NodeTypeDocument = "DOCUMENT"
	NodeTypeCanvas   = "CANVAS"
	NodeTypeFrame    = "FRAME"
	NodeTypeSlice    = "SLICE"
)

// FileResponse represents the complete response from the Figma file API endpoint.
// It contains the file metadata and the document tree.
type FileResponse struct {
	Name          string `json:"name"`
	LastModified  string `json:"lastModified"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	Version       string `json:"version"`
	Document      Node   `json:"document"`
	SchemaVersion int    `json:"schemaVersion"`
}

// ImagesResponse represents the response from the Figma render (images) API endpoint.
// Images maps each requested node ID to a temporary download URL; a node that
// could not be rendered has an empty (null) URL.
type ImagesResponse struct {
	Err    string            `json:"err"`
	Status int               `json:"status,omitempty"`
	Images map[string]string `json:"images"`
}

// Node represents a single element in the Figma document tree hierarchy.
type Node struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	Children            []Node     `json:"children,omitempty"`
	AbsoluteBoundingBox *Rectangle `json:"absoluteBoundingBox,omitempty"`
}

// Rectangle represents a bounding box with position (X, Y) and dimensions (Width, Height).
// Used to define the absolute position and size of nodes in the Figma canvas.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
