// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls embedded raster images out of notebook documents and
// writes them to disk with deterministic names, one subdirectory per notebook.
package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/nbimages/internal/index"
	"github.com/pdiddy/nbimages/internal/notebook"
	"github.com/pdiddy/nbimages/pkg/types"
)

// ErrNotebook marks a failure confined to one notebook (unreadable, malformed,
// or carrying an undecodable payload). Batch runs log it and move on; any
// other error aborts the run.
var ErrNotebook = errors.New("notebook extraction failed")

// Extractor writes images found in notebooks under an output directory.
type Extractor struct {
	cfg types.ExtractionConfig
	out io.Writer
	log zerolog.Logger
}

// New creates an Extractor. Progress lines go to out; diagnostics go to log.
func New(cfg types.ExtractionConfig, out io.Writer, log zerolog.Logger) *Extractor {
	if out == nil {
		out = io.Discard
	}
	return &Extractor{cfg: cfg.WithDefaults(), out: out, log: log}
}

// FileName builds the deterministic image file name for one payload.
func FileName(base string, cell, output, seq int, mt types.MediaType) string {
	return fmt.Sprintf("%s_cell_%d_output_%d_%d.%s", base, cell, output, seq, mt.Extension())
}

// Extract writes every PNG and JPEG payload found in the code cells of the
// notebook at nbPath and returns the written images in write order.
//
// Unreadable or malformed notebooks and undecodable payloads return an error
// wrapping ErrNotebook and no images; files already written stay on disk.
// Directory and file write failures are returned unwrapped.
func (e *Extractor) Extract(nbPath string) ([]types.Image, error) {
	base := notebook.BaseName(nbPath)
	nbDir := filepath.Join(e.cfg.OutputDir, base)
	if err := os.MkdirAll(nbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", nbDir, err)
	}

	nb, err := notebook.Load(nbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotebook, err)
	}

	var images []types.Image
	seq := 0
	for ci, cell := range nb.Cells {
		if !cell.IsCode() {
			continue
		}
		for oi, output := range cell.Outputs {
			for _, mt := range types.ImageMediaTypes {
				payload, ok := output.Image(mt)
				if !ok {
					continue
				}
				data, err := Decode(payload)
				if err != nil {
					if e.cfg.SkipCorrupt {
						fmt.Fprintf(e.out, "skipped: %s cell %d output %d %s (%v)\n", base, ci, oi, mt, err)
						e.log.Warn().Err(err).Str("notebook", base).Int("cell", ci).Int("output", oi).
							Str("media_type", string(mt)).Msg("skipping undecodable image")
						continue
					}
					return nil, fmt.Errorf("%w: %s cell %d output %d %s: %w", ErrNotebook, base, ci, oi, mt, err)
				}

				seq++
				img := types.Image{
					Notebook:  base,
					Cell:      ci,
					Output:    oi,
					Seq:       seq,
					MediaType: mt,
					Path:      filepath.Join(nbDir, FileName(base, ci, oi, seq, mt)),
				}
				if err := e.write(&img, data); err != nil {
					return nil, err
				}
				images = append(images, img)
				fmt.Fprintf(e.out, "extracted: %s\n", img.Path)
			}
		}
	}

	fmt.Fprintf(e.out, "%s: %d image(s) extracted\n", nbPath, len(images))
	return images, nil
}

// write persists data to img.Path and fills in the payload metadata.
func (e *Extractor) write(img *types.Image, data []byte) error {
	if err := os.WriteFile(img.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", img.Path, err)
	}

	sum := sha256.Sum256(data)
	img.Size = int64(len(data))
	img.SHA256 = hex.EncodeToString(sum[:])
	img.Width, img.Height = dimensions(data)

	if e.cfg.Verify {
		detected, match := sniff(data, img.MediaType)
		img.DetectedMIME = detected
		if !match {
			e.log.Warn().Str("path", img.Path).Str("declared", string(img.MediaType)).
				Str("detected", detected).Msg("payload does not match declared media type")
		}
	}

	e.log.Debug().Str("path", img.Path).Int64("bytes", img.Size).Msg("image written")
	return nil
}

// Result summarizes a batch extraction run.
type Result struct {
	// Processed lists the base names of notebooks extracted without error,
	// including those that yielded no images.
	Processed []string

	// Failed lists the paths of notebooks that could not be extracted.
	Failed []string

	// Images holds every written image in write order.
	Images []types.Image

	// IndexPath is the written index, empty when no notebooks were found.
	IndexPath string
}

// Total returns the number of notebooks attempted.
func (r Result) Total() int {
	return len(r.Processed) + len(r.Failed)
}

// HasFailures reports whether any notebook failed.
func (r Result) HasFailures() bool {
	return len(r.Failed) > 0
}

// Discover lists the notebook documents directly inside dir whose extension
// matches ext, in directory enumeration order.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading notebook directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ext {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// ExtractAll extracts every notebook in the configured source directory, one
// at a time, then regenerates the index. When no notebooks are found it
// reports so and writes nothing.
func (e *Extractor) ExtractAll() (Result, error) {
	var result Result

	paths, err := Discover(e.cfg.SourceDir, e.cfg.Extension)
	if err != nil {
		return result, err
	}
	if len(paths) == 0 {
		fmt.Fprintf(e.out, "no %s files found in %s\n", e.cfg.Extension, e.cfg.SourceDir)
		return result, nil
	}
	fmt.Fprintf(e.out, "found %d notebook(s)\n", len(paths))

	return e.extractPaths(paths)
}

// extractPaths extracts the given notebooks in order and writes the indexes.
// A notebook whose base name was already extracted in this run is reported
// as failed, since its images would overwrite the earlier notebook's.
func (e *Extractor) extractPaths(paths []string) (Result, error) {
	var result Result
	seen := make(map[string]string, len(paths))

	for _, p := range paths {
		fmt.Fprintf(e.out, "\nprocessing: %s\n", p)
		base := notebook.BaseName(p)
		if first, dup := seen[base]; dup {
			err := fmt.Errorf("%w: %s: output name %q already used by %s", ErrNotebook, p, base, first)
			fmt.Fprintf(e.out, "failed:  %s (%v)\n", p, err)
			e.log.Error().Err(err).Str("notebook", p).Msg("notebook skipped")
			result.Failed = append(result.Failed, p)
			continue
		}
		seen[base] = p

		images, err := e.Extract(p)
		if err != nil {
			if !errors.Is(err, ErrNotebook) {
				return result, err
			}
			fmt.Fprintf(e.out, "failed:  %s (%v)\n", p, err)
			e.log.Error().Err(err).Str("notebook", p).Msg("notebook skipped")
			result.Failed = append(result.Failed, p)
			continue
		}
		result.Processed = append(result.Processed, base)
		result.Images = append(result.Images, images...)
	}

	fmt.Fprintf(e.out, "\nBatch summary: %d image(s) from %d notebook(s), %d failed\n",
		len(result.Images), len(result.Processed), len(result.Failed))

	if err := e.writeIndexes(&result); err != nil {
		return result, err
	}
	return result, nil
}

func (e *Extractor) writeIndexes(result *Result) error {
	idx := index.Build(types.Paths(result.Images))

	path, err := index.Write(e.cfg.OutputDir, idx)
	if err != nil {
		return err
	}
	result.IndexPath = path
	fmt.Fprintf(e.out, "index written: %s\n", path)

	if e.cfg.HTML {
		htmlPath, err := index.WriteHTML(e.cfg.OutputDir, idx)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "index written: %s\n", htmlPath)
	}
	if e.cfg.Manifest {
		manifestPath, err := index.WriteManifest(e.cfg.OutputDir, result.Images)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "manifest written: %s\n", manifestPath)
	}
	return nil
}
