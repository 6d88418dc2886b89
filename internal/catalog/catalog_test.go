// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nbimages/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "images", types.CatalogFile))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func img(nb string, seq int, mt types.MediaType) types.Image {
	return types.Image{
		Notebook:  nb,
		Cell:      seq - 1,
		Seq:       seq,
		MediaType: mt,
		Path:      filepath.Join("images", nb, nb+"_img."+mt.Extension()),
		Size:      int64(100 * seq),
		SHA256:    "abc",
		Width:     2,
		Height:    3,
	}
}

func TestRecordAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := NewRun(types.ExtractionConfig{SourceDir: ".", OutputDir: "images"})
	run.Notebooks, run.Images = 2, 3
	images := []types.Image{img("b", 1, types.MediaPNG), img("a", 1, types.MediaPNG), img("a", 2, types.MediaJPEG)}
	require.NoError(t, s.Record(ctx, run, []string{"b", "a"}, images))

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Notebook)
	assert.Equal(t, 1, all[0].Seq)
	assert.Equal(t, types.MediaJPEG, all[1].MediaType)
	assert.Equal(t, int64(200), all[1].Size)
	assert.Equal(t, 3, all[1].Height)
	assert.Equal(t, "b", all[2].Notebook)

	onlyB, err := s.List(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, onlyB, 1)
}

func TestRecord_ReplacesProcessedNotebooks(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	cfg := types.ExtractionConfig{SourceDir: ".", OutputDir: "images"}

	require.NoError(t, s.Record(ctx, NewRun(cfg), []string{"a", "b"},
		[]types.Image{img("a", 1, types.MediaPNG), img("a", 2, types.MediaPNG), img("b", 1, types.MediaPNG)}))

	// Second run: "a" now has one image, "b" failed and was not processed.
	require.NoError(t, s.Record(ctx, NewRun(cfg), []string{"a"},
		[]types.Image{img("a", 1, types.MediaJPEG)}))

	a, err := s.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, types.MediaJPEG, a[0].MediaType)

	b, err := s.List(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, b, 1, "unprocessed notebooks keep their rows")
}

func TestRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	cfg := types.ExtractionConfig{SourceDir: "notebooks", OutputDir: "images"}

	first := NewRun(cfg)
	first.StartedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first.Images = 1
	second := NewRun(cfg)
	second.StartedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	second.Failed = 1
	assert.NotEqual(t, first.ID, second.ID)

	require.NoError(t, s.Record(ctx, first, nil, nil))
	require.NoError(t, s.Record(ctx, second, nil, nil))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID, "newest first")
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, "notebooks", runs[0].SourceDir)
	assert.True(t, first.StartedAt.Equal(runs[1].StartedAt))

	limited, err := s.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecord_DuplicateRunRollsBack(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run := NewRun(types.ExtractionConfig{SourceDir: ".", OutputDir: "images"})

	require.NoError(t, s.Record(ctx, run, []string{"a"}, []types.Image{img("a", 1, types.MediaPNG)}))
	err := s.Record(ctx, run, []string{"a"}, nil)
	require.Error(t, err)

	a, err := s.List(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, a, 1, "failed record leaves previous rows intact")
}
