package types

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultSourceDir is scanned for notebooks when no directory is given.
	DefaultSourceDir = "."
	// DefaultOutputDir receives extracted images and the index.
	DefaultOutputDir = "images"
	// DefaultExtension selects notebook documents during discovery.
	DefaultExtension = ".ipynb"
	// IndexFile is the Markdown index written under the output directory.
	IndexFile = "image_index.md"
	// IndexHTMLFile is the optional HTML rendering of the index.
	IndexHTMLFile = "image_index.html"
	// ManifestFile is the optional per-image metadata file.
	ManifestFile = "manifest.yaml"
	// CatalogFile is the default SQLite catalog file name.
	CatalogFile = "catalog.db"
)

// ExtractionConfig holds settings for an extraction run.
type ExtractionConfig struct {
	// SourceDir is scanned (non-recursively) for notebook documents.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// OutputDir receives one subdirectory per notebook plus the index.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Extension filters notebook documents during discovery (default ".ipynb").
	Extension string `json:"extension" yaml:"extension"`

	// SkipCorrupt skips an image whose payload cannot be decoded instead of
	// abandoning the rest of the notebook.
	SkipCorrupt bool `json:"skip_corrupt" yaml:"skip_corrupt"`

	// Verify sniffs decoded payloads and warns when the content does not match
	// the declared media type.
	Verify bool `json:"verify" yaml:"verify"`

	// HTML additionally renders the index to HTML.
	HTML bool `json:"html" yaml:"html"`

	// Manifest additionally writes manifest.yaml with per-image metadata.
	Manifest bool `json:"manifest" yaml:"manifest"`

	// CatalogPath enables the SQLite extraction catalog when non-empty.
	CatalogPath string `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"`
}

// WithDefaults fills empty fields with their default values.
func (c ExtractionConfig) WithDefaults() ExtractionConfig {
	if strings.TrimSpace(c.SourceDir) == "" {
		c.SourceDir = DefaultSourceDir
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = DefaultOutputDir
	}
	if strings.TrimSpace(c.Extension) == "" {
		c.Extension = DefaultExtension
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	return c
}

// Validate checks that the directories and extension are usable.
func (c ExtractionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SourceDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.By(func(value any) error {
			ext, _ := value.(string)
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				return validation.NewError("validation_extension_dot", "must start with a dot")
			}
			if strings.ContainsAny(ext, `/\`) {
				return validation.NewError("validation_extension_separator", "must not contain a path separator")
			}
			return nil
		})),
	)
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// Pretty switches to human-readable console output.
	Pretty bool `json:"pretty" yaml:"pretty"`

	// File additionally writes JSON logs to a rotating file when set.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	MaxSizeMB  int `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`
}
