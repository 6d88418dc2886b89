// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbimages/internal/catalog"
	"github.com/pdiddy/nbimages/internal/extract"
	"github.com/pdiddy/nbimages/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract images from the notebooks in a directory",
	Long: `Extract reads every notebook in --source-dir (non-recursive), writes the
PNG and JPEG images found in code-cell outputs to --output-dir/<notebook>/,
and regenerates the image index. Notebooks that cannot be parsed are reported
and skipped.

File names follow <notebook>_cell_<N>_output_<M>_<K>.<png|jpg>, where K is a
per-notebook counter starting at 1.`,
	RunE: runExtract,
}

func init() {
	addExtractFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

func addExtractFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("source-dir", types.DefaultSourceDir, "directory to scan for notebooks")
	f.String("output-dir", types.DefaultOutputDir, "directory for extracted images and the index")
	f.String("ext", types.DefaultExtension, "notebook file extension")
	f.Bool("skip-corrupt", false, "skip undecodable images instead of abandoning the notebook")
	f.Bool("verify", false, "check decoded images against their declared media type")
	f.Bool("html", false, "also render the index to image_index.html")
	f.Bool("manifest", false, "also write manifest.yaml with per-image metadata")
	f.String("catalog", "", "record the run in this SQLite catalog (e.g. images/catalog.db)")
}

func extractionConfig() types.ExtractionConfig {
	return types.ExtractionConfig{
		SourceDir:   viper.GetString("source-dir"),
		OutputDir:   viper.GetString("output-dir"),
		Extension:   viper.GetString("ext"),
		SkipCorrupt: viper.GetBool("skip-corrupt"),
		Verify:      viper.GetBool("verify"),
		HTML:        viper.GetBool("html"),
		Manifest:    viper.GetBool("manifest"),
		CatalogPath: viper.GetString("catalog"),
	}.WithDefaults()
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractionConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	run := catalog.NewRun(cfg)
	log.Debug().Str("run", run.ID).Str("source", cfg.SourceDir).Str("output", cfg.OutputDir).Msg("starting extraction")

	e := extract.New(cfg, os.Stdout, log)
	result, err := e.ExtractAll()
	if err != nil {
		return err
	}

	if cfg.CatalogPath != "" && result.Total() > 0 {
		run.Notebooks = len(result.Processed)
		run.Failed = len(result.Failed)
		run.Images = len(result.Images)
		if err := recordRun(cmd.Context(), cfg.CatalogPath, run, result); err != nil {
			return err
		}
		fmt.Printf("catalog updated: %s\n", cfg.CatalogPath)
	}
	return nil
}

func recordRun(ctx context.Context, path string, run catalog.Run, result extract.Result) error {
	store, err := catalog.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, run, result.Processed, result.Images)
}
