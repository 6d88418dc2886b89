// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbimages/internal/catalog"
	"github.com/pdiddy/nbimages/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show images and runs recorded in the extraction catalog",
	Long: `Catalog reads the SQLite catalog written by extract --catalog. By default
it lists the images from each notebook's latest run; --runs lists runs instead.`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().String("catalog", filepath.Join(types.DefaultOutputDir, types.CatalogFile), "catalog database path")
	catalogCmd.Flags().String("notebook", "", "only list images from this notebook")
	catalogCmd.Flags().Bool("runs", false, "list extraction runs instead of images")
	catalogCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	catalogCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	path := viper.GetString("catalog")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}

	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput := viper.GetBool("json")

	if viper.GetBool("runs") {
		runs, err := store.Runs(cmd.Context(), viper.GetInt("limit"))
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(runs)
		}
		printRuns(runs)
		return nil
	}

	images, err := store.List(cmd.Context(), viper.GetString("notebook"))
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(images)
	}
	printImages(images)
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printImages(images []types.Image) {
	if len(images) == 0 {
		fmt.Println("No images catalogued.")
		return
	}
	fmt.Fprintf(os.Stdout, "%-20s  %-4s  %-4s  %-6s  %-10s  %-9s  %s\n",
		"Notebook", "Seq", "Cell", "Output", "Type", "Size", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, img := range images {
		nb := img.Notebook
		if len(nb) > 20 {
			nb = nb[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-4d  %-4d  %-6d  %-10s  %-9d  %s\n",
			nb, img.Seq, img.Cell, img.Output, img.MediaType, img.Size, img.Path)
	}
	fmt.Fprintf(os.Stdout, "\n%d images\n", len(images))
}

func printRuns(runs []catalog.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-9s  %-6s  %s\n", "Run", "Started", "Notebooks", "Failed", "Images")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-9d  %-6d  %d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Notebooks, r.Failed, r.Images)
	}
}
