// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nbimages/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantCells int
		wantErr   bool
	}{
		{"empty object", `{}`, 0, false},
		{"no cells", `{"cells": []}`, 0, false},
		{"markdown and code", `{"cells": [{"cell_type": "markdown", "source": "# hi"}, {"cell_type": "code", "outputs": []}]}`, 2, false},
		{"unknown fields ignored", `{"nbformat": 4, "metadata": {"kernelspec": {}}, "cells": [{"cell_type": "code", "execution_count": 3}]}`, 1, false},
		{"not json", `{"cells": [`, 0, true},
		{"top level array", `[]`, 0, true},
		{"cells not array", `{"cells": {}}`, 0, true},
		{"outputs null", `{"cells": [{"cell_type": "code", "outputs": null}]}`, 0, true},
		{"png not text", `{"cells": [{"cell_type": "code", "outputs": [{"data": {"image/png": 42}}]}]}`, 0, true},
		{"markdown outputs not checked", `{"cells": [{"cell_type": "markdown", "outputs": "junk"}, {"cell_type": "raw", "outputs": [{"data": {"image/png": 42}}]}]}`, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb, err := Parse([]byte(tt.doc))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, nb.Cells, tt.wantCells)
		})
	}
}

func TestParse_SchemaErrorIsInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"cells": "nope"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "/cells")
}

func TestParse_NonCodeCellOutputsDropped(t *testing.T) {
	nb, err := Parse([]byte(`{"cells": [{"cell_type": "markdown", "outputs": {"data": 1}}]}`))
	require.NoError(t, err)
	require.Len(t, nb.Cells, 1)
	assert.False(t, nb.Cells[0].IsCode())
	assert.Empty(t, nb.Cells[0].Outputs)
}

func TestOutputImage(t *testing.T) {
	doc := `{"cells": [{"cell_type": "code", "outputs": [
		{"output_type": "display_data", "data": {"image/png": "iVBOR", "text/plain": "<Figure>"}},
		{"output_type": "display_data", "data": {"image/jpeg": ["/9j/", "4AAQ\n"]}},
		{"output_type": "stream", "text": "hello"}
	]}]}`
	nb, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, nb.Cells, 1)
	cell := nb.Cells[0]
	assert.True(t, cell.IsCode())
	require.Len(t, cell.Outputs, 3)

	png, ok := cell.Outputs[0].Image(types.MediaPNG)
	assert.True(t, ok)
	assert.Equal(t, "iVBOR", png)
	_, ok = cell.Outputs[0].Image(types.MediaJPEG)
	assert.False(t, ok)

	jpg, ok := cell.Outputs[1].Image(types.MediaJPEG)
	assert.True(t, ok)
	assert.Equal(t, "/9j/4AAQ\n", jpg, "multiline strings are concatenated")

	_, ok = cell.Outputs[2].Image(types.MediaPNG)
	assert.False(t, ok, "output without data has no images")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(`{"cells": [{"cell_type": "code", "outputs": []}]}`), 0o644))

	nb, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, nb.Cells, 1)

	_, err = Load(filepath.Join(dir, "missing.ipynb"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "demo", BaseName("/x/y/demo.ipynb"))
	assert.Equal(t, "01_intro.v2", BaseName("01_intro.v2.ipynb"))
	assert.Equal(t, "README", BaseName("README"))
}
