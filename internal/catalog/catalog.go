// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a SQLite record of extraction runs and the images
// each notebook produced in its latest run.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/nbimages/pkg/types"
)

// Run describes one extraction run.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	SourceDir string    `json:"source_dir" yaml:"source_dir"`
	OutputDir string    `json:"output_dir" yaml:"output_dir"`
	Notebooks int       `json:"notebooks" yaml:"notebooks"`
	Failed    int       `json:"failed" yaml:"failed"`
	Images    int       `json:"images" yaml:"images"`
}

// NewRun starts a run record with a fresh ID.
func NewRun(cfg types.ExtractionConfig) Run {
	return Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		SourceDir: cfg.SourceDir,
		OutputDir: cfg.OutputDir,
	}
}

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			source_dir TEXT,
			output_dir TEXT,
			notebooks INTEGER,
			failed INTEGER,
			images INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS images (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			notebook TEXT NOT NULL,
			seq INTEGER NOT NULL,
			cell INTEGER NOT NULL,
			output INTEGER NOT NULL,
			media_type TEXT NOT NULL,
			path TEXT NOT NULL,
			size INTEGER,
			sha256 TEXT,
			detected_mime TEXT,
			width INTEGER,
			height INTEGER,
			UNIQUE(notebook, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_images_notebook ON images(notebook)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run and replaces the catalogued images of every notebook in
// processed with the images of this run. Notebooks not listed keep their rows.
func (s *Store) Record(ctx context.Context, run Run, processed []string, images []types.Image) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, source_dir, output_dir, notebooks, failed, images)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339), run.SourceDir, run.OutputDir,
		run.Notebooks, run.Failed, run.Images,
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, nb := range processed {
		if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE notebook = ?`, nb); err != nil {
			return fmt.Errorf("clearing %s: %w", nb, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO images (run_id, notebook, seq, cell, output, media_type, path, size, sha256, detected_mime, width, height)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, img := range images {
		if _, err := stmt.ExecContext(ctx,
			run.ID, img.Notebook, img.Seq, img.Cell, img.Output, string(img.MediaType),
			img.Path, img.Size, img.SHA256, img.DetectedMIME, img.Width, img.Height,
		); err != nil {
			return fmt.Errorf("inserting %s: %w", img.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// List returns catalogued images ordered by notebook and sequence. A non-empty
// notebook restricts the result to that notebook.
func (s *Store) List(ctx context.Context, notebook string) ([]types.Image, error) {
	query := `SELECT notebook, seq, cell, output, media_type, path, size, sha256, detected_mime, width, height
		FROM images`
	var args []any
	if notebook != "" {
		query += ` WHERE notebook = ?`
		args = append(args, notebook)
	}
	query += ` ORDER BY notebook, seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var images []types.Image
	for rows.Next() {
		var img types.Image
		var mt string
		var sha, detected sql.NullString
		var size, width, height sql.NullInt64
		if err := rows.Scan(&img.Notebook, &img.Seq, &img.Cell, &img.Output, &mt, &img.Path,
			&size, &sha, &detected, &width, &height); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		img.MediaType = types.MediaType(mt)
		img.Size = size.Int64
		img.SHA256 = sha.String
		img.DetectedMIME = detected.String
		img.Width = int(width.Int64)
		img.Height = int(height.Int64)
		images = append(images, img)
	}
	return images, rows.Err()
}

// Runs returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, source_dir, output_dir, notebooks, failed, images
		FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.SourceDir, &r.OutputDir, &r.Notebooks, &r.Failed, &r.Images); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
