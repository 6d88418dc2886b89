// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds the Markdown image index that lists extracted images
// grouped by source notebook.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/nbimages/pkg/types"
)

const (
	title       = "Image Index"
	description = "This file indexes every image extracted from the Jupyter notebooks."
)

// Group lists the image file names extracted from one notebook.
type Group struct {
	Notebook string
	Files    []string
}

// Index is the grouped, sorted view of a set of extracted image paths.
type Index struct {
	Groups []Group
}

// Len returns the number of images in the index.
func (ix Index) Len() int {
	n := 0
	for _, g := range ix.Groups {
		n += len(g.Files)
	}
	return n
}

// Build groups paths by their parent directory name. Groups keep the order in
// which each notebook first appears; file names are sorted within a group.
func Build(paths []string) Index {
	var ix Index
	pos := make(map[string]int)
	for _, p := range paths {
		nb := filepath.Base(filepath.Dir(p))
		i, ok := pos[nb]
		if !ok {
			i = len(ix.Groups)
			pos[nb] = i
			ix.Groups = append(ix.Groups, Group{Notebook: nb})
		}
		ix.Groups[i].Files = append(ix.Groups[i].Files, filepath.Base(p))
	}
	for i := range ix.Groups {
		sort.Strings(ix.Groups[i].Files)
	}
	return ix
}

// Markdown renders the index document.
func (ix Index) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%s\n\n", description)
	for _, g := range ix.Groups {
		fmt.Fprintf(&b, "## %s\n\n", g.Notebook)
		for _, f := range g.Files {
			fmt.Fprintf(&b, "- ![%s](./%s/%s)\n", f, g.Notebook, f)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Write renders ix to outputDir/image_index.md, replacing any previous index,
// and returns the written path.
func Write(outputDir string, ix Index) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", outputDir, err)
	}
	path := filepath.Join(outputDir, types.IndexFile)
	if err := os.WriteFile(path, []byte(ix.Markdown()), 0o644); err != nil {
		return "", fmt.Errorf("writing index: %w", err)
	}
	return path, nil
}

// Scan finds images already extracted under outputDir: every .png and .jpg
// file one level below it, ordered by notebook directory then file name.
func Scan(outputDir string) ([]string, error) {
	dirs, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory %s: %w", outputDir, err)
	}
	var paths []string
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		nbDir := filepath.Join(outputDir, d.Name())
		files, err := os.ReadDir(nbDir)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", nbDir, err)
		}
		for _, f := range files {
			if f.IsDir() || !isImage(f.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(nbDir, f.Name()))
		}
	}
	return paths, nil
}

func isImage(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, mt := range types.ImageMediaTypes {
		if ext == mt.Extension() {
			return true
		}
	}
	return false
}
