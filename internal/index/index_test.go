// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nbimages/pkg/types"
)

func TestBuild(t *testing.T) {
	paths := []string{
		filepath.Join("images", "zeta", "zeta_cell_0_output_0_1.png"),
		filepath.Join("images", "alpha", "alpha_cell_2_output_0_2.jpg"),
		filepath.Join("images", "alpha", "alpha_cell_10_output_0_1.png"),
		filepath.Join("images", "zeta", "zeta_cell_1_output_0_2.png"),
	}

	ix := Build(paths)
	require.Len(t, ix.Groups, 2)
	assert.Equal(t, 4, ix.Len())

	assert.Equal(t, "zeta", ix.Groups[0].Notebook, "groups keep first-appearance order")
	assert.Equal(t, []string{"zeta_cell_0_output_0_1.png", "zeta_cell_1_output_0_2.png"}, ix.Groups[0].Files)

	assert.Equal(t, "alpha", ix.Groups[1].Notebook)
	assert.Equal(t, []string{"alpha_cell_10_output_0_1.png", "alpha_cell_2_output_0_2.jpg"}, ix.Groups[1].Files,
		"file names sort lexicographically")
}

func TestBuild_Empty(t *testing.T) {
	ix := Build(nil)
	assert.Empty(t, ix.Groups)
	assert.Equal(t, "# Image Index\n\n"+description+"\n\n", ix.Markdown())
}

func TestMarkdown(t *testing.T) {
	ix := Build([]string{
		filepath.Join("images", "demo", "demo_cell_0_output_0_1.png"),
		filepath.Join("images", "other", "other_cell_1_output_0_1.jpg"),
	})

	want := "# Image Index\n\n" +
		description + "\n\n" +
		"## demo\n\n" +
		"- ![demo_cell_0_output_0_1.png](./demo/demo_cell_0_output_0_1.png)\n" +
		"\n" +
		"## other\n\n" +
		"- ![other_cell_1_output_0_1.jpg](./other/other_cell_1_output_0_1.jpg)\n" +
		"\n"
	assert.Equal(t, want, ix.Markdown())
}

func TestWrite_Overwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")

	path, err := Write(dir, Build([]string{filepath.Join(dir, "a", "a_cell_0_output_0_1.png")}))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, types.IndexFile), path)

	_, err = Write(dir, Build([]string{filepath.Join(dir, "b", "b_cell_0_output_0_1.png")}))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "## a")
	assert.Contains(t, string(data), "## b")
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	ix := Build([]string{filepath.Join(dir, "demo", "demo_cell_0_output_0_1.png")})

	path, err := WriteHTML(dir, ix)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, types.IndexHTMLFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Image Index</title>")
	assert.Contains(t, html, `<h2 id="demo">demo</h2>`)
	assert.Contains(t, html, `<img src="./demo/demo_cell_0_output_0_1.png" alt="demo_cell_0_output_0_1.png">`)
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()
	images := []types.Image{
		{Notebook: "b", Seq: 1, MediaType: types.MediaPNG, Path: filepath.Join(dir, "b", "b_cell_0_output_0_1.png"), Size: 10},
		{Notebook: "a", Seq: 1, MediaType: types.MediaJPEG, Path: filepath.Join(dir, "a", "a_cell_0_output_0_1.jpg"), Width: 4, Height: 4},
		{Notebook: "b", Seq: 2, MediaType: types.MediaPNG, Path: filepath.Join(dir, "b", "b_cell_1_output_0_2.png")},
	}

	path, err := WriteManifest(dir, images)
	require.NoError(t, err)

	m, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Total)
	assert.False(t, m.GeneratedAt.IsZero())
	require.Len(t, m.Notebooks, 2)
	assert.Equal(t, "b", m.Notebooks[0].Name)
	require.Len(t, m.Notebooks[0].Images, 2)
	assert.Equal(t, "b/b_cell_0_output_0_1.png", m.Notebooks[0].Images[0].Path, "paths are relative to the output directory")
	assert.Equal(t, int64(10), m.Notebooks[0].Images[0].Size)
	assert.Equal(t, types.MediaJPEG, m.Notebooks[1].Images[0].MediaType)
	assert.Equal(t, 4, m.Notebooks[1].Images[0].Width)

	assert.Equal(t, filepath.Join(dir, "b", "b_cell_0_output_0_1.png"), images[0].Path, "input slice is not modified")
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join("beta", "beta_cell_0_output_0_1.png"),
		filepath.Join("alpha", "alpha_cell_0_output_0_2.JPG"),
		filepath.Join("alpha", "alpha_cell_0_output_0_1.png"),
		filepath.Join("alpha", "notes.txt"),
	}
	for _, f := range files {
		p := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, types.IndexFile), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.png"), []byte("x"), 0o644))

	paths, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "alpha", "alpha_cell_0_output_0_1.png"),
		filepath.Join(dir, "alpha", "alpha_cell_0_output_0_2.JPG"),
		filepath.Join(dir, "beta", "beta_cell_0_output_0_1.png"),
	}, paths)

	_, err = Scan(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
