// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MediaType identifies an embedded image representation inside a notebook
// output record.
type MediaType string

const (
	MediaPNG  MediaType = "image/png"
	MediaJPEG MediaType = "image/jpeg"
)

// Extension returns the file extension (without the dot) used when writing
// an image of this media type.
func (m MediaType) Extension() string {
	switch m {
	case MediaPNG:
		return "png"
	case MediaJPEG:
		return "jpg"
	}
	return ""
}

// ImageMediaTypes lists the media types extracted from each output, in the
// order they are checked. PNG always comes first.
var ImageMediaTypes = []MediaType{MediaPNG, MediaJPEG}

// Image describes one extracted image file and where it came from.
type Image struct {
	// Notebook is the notebook base name (file name without extension).
	Notebook string `json:"notebook" yaml:"notebook"`

	// Cell is the zero-based index of the source cell in the notebook.
	Cell int `json:"cell" yaml:"cell"`

	// Output is the zero-based index of the output record within the cell.
	Output int `json:"output" yaml:"output"`

	// Seq is the per-notebook running image counter (starts at 1).
	Seq int `json:"seq" yaml:"seq"`

	// MediaType is the declared media-type key the payload was stored under.
	MediaType MediaType `json:"media_type" yaml:"media_type"`

	// Path is the path of the written file.
	Path string `json:"path" yaml:"path"`

	// Size is the decoded payload size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SHA256 is the hex digest of the decoded payload.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// DetectedMIME is the sniffed content type, set only when verification
	// is enabled.
	DetectedMIME string `json:"detected_mime,omitempty" yaml:"detected_mime,omitempty"`

	// Width and Height are the pixel dimensions, zero when the header could
	// not be decoded.
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
}

// Paths returns the file paths of images in order.
func Paths(images []Image) []string {
	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}
	return paths
}
