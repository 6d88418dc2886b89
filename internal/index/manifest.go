// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbimages/pkg/types"
)

// Manifest is the on-disk record of one extraction run's images.
type Manifest struct {
	GeneratedAt time.Time          `yaml:"generated_at"`
	Total       int                `yaml:"total"`
	Notebooks   []ManifestNotebook `yaml:"notebooks"`
}

// ManifestNotebook holds the images of one notebook in write order. Paths are
// relative to the output directory.
type ManifestNotebook struct {
	Name   string        `yaml:"name"`
	Images []types.Image `yaml:"images"`
}

// NewManifest groups images by notebook in order of first appearance.
func NewManifest(outputDir string, images []types.Image) Manifest {
	m := Manifest{GeneratedAt: time.Now().UTC(), Total: len(images)}
	pos := make(map[string]int)
	for _, img := range images {
		i, ok := pos[img.Notebook]
		if !ok {
			i = len(m.Notebooks)
			pos[img.Notebook] = i
			m.Notebooks = append(m.Notebooks, ManifestNotebook{Name: img.Notebook})
		}
		if rel, err := filepath.Rel(outputDir, img.Path); err == nil {
			img.Path = filepath.ToSlash(rel)
		}
		m.Notebooks[i].Images = append(m.Notebooks[i].Images, img)
	}
	return m
}

// WriteManifest writes outputDir/manifest.yaml, replacing any previous one.
func WriteManifest(outputDir string, images []types.Image) (string, error) {
	m := NewManifest(outputDir, images)
	data, err := yaml.Marshal(&m)
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}
	path := filepath.Join(outputDir, types.ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
