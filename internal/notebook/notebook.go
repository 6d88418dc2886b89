// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook reads Jupyter notebook documents into a typed model.
// Only the parts needed to locate embedded images are modelled: cells, their
// type, their outputs, and each output's media-type bundle. Unknown fields are
// ignored.
package notebook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/nbimages/pkg/types"
)

// CellCode is the cell_type of cells that carry outputs.
const CellCode = "code"

// Notebook is a parsed notebook document.
type Notebook struct {
	Cells []Cell `json:"cells"`
}

// Cell is one notebook cell. Outputs is empty for non-code cells.
type Cell struct {
	CellType string   `json:"cell_type"`
	Outputs  []Output `json:"outputs"`
}

// UnmarshalJSON decodes outputs for code cells only. Other cell types never
// carry images, so whatever they hold under "outputs" is ignored.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw struct {
		CellType string          `json:"cell_type"`
		Outputs  json.RawMessage `json:"outputs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Cell{CellType: raw.CellType}
	if !c.IsCode() || len(raw.Outputs) == 0 {
		return nil
	}
	return json.Unmarshal(raw.Outputs, &c.Outputs)
}

// IsCode reports whether the cell is a code cell.
func (c Cell) IsCode() bool {
	return c.CellType == CellCode
}

// Output is a single output record of a code cell.
type Output struct {
	OutputType string     `json:"output_type"`
	Data       MimeBundle `json:"data"`
}

// MimeBundle maps a media-type key to its text-encoded payload.
type MimeBundle map[string]Text

// Image returns the payload stored under the given media type, if present.
func (o Output) Image(mt types.MediaType) (string, bool) {
	if o.Data == nil {
		return "", false
	}
	t, ok := o.Data[string(mt)]
	if !ok {
		return "", false
	}
	return string(t), true
}

// Text is a notebook string value. The format allows a string to be stored
// either as a single JSON string or as an array of lines; both decode to the
// concatenated text.
type Text string

// UnmarshalJSON accepts a JSON string, an array of strings, or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var lines []string
		if err := json.Unmarshal(data, &lines); err != nil {
			return err
		}
		*t = Text(strings.Join(lines, ""))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

// Load reads and parses the notebook at path.
func Load(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading notebook %s: %w", path, err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Parse validates data against the notebook schema and decodes it.
func Parse(data []byte) (*Notebook, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing notebook: %w", err)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("decoding notebook: %w", err)
	}
	return &nb, nil
}

// BaseName returns the notebook name used for output directories and file
// names: the file name without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
