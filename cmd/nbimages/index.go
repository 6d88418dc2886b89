package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbimages/internal/index"
	"github.com/pdiddy/nbimages/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the image index from images already on disk",
	Long: `Index scans --output-dir for previously extracted images (one
subdirectory per notebook) and rewrites image_index.md without re-reading any
notebook.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("output-dir", types.DefaultOutputDir, "directory holding extracted images")
	indexCmd.Flags().Bool("html", false, "also render the index to image_index.html")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	outputDir := viper.GetString("output-dir")
	if outputDir == "" {
		outputDir = types.DefaultOutputDir
	}

	paths, err := index.Scan(outputDir)
	if err != nil {
		return err
	}
	ix := index.Build(paths)
	log.Debug().Int("images", ix.Len()).Int("notebooks", len(ix.Groups)).Msg("rebuilding index")

	path, err := index.Write(outputDir, ix)
	if err != nil {
		return err
	}
	fmt.Printf("index written: %s (%d images, %d notebooks)\n", path, ix.Len(), len(ix.Groups))

	if viper.GetBool("html") {
		htmlPath, err := index.WriteHTML(outputDir, ix)
		if err != nil {
			return err
		}
		fmt.Printf("index written: %s\n", htmlPath)
	}
	return nil
}
