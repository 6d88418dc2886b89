// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nbimages CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbimages/internal/logger"
	"github.com/pdiddy/nbimages/pkg/types"
)

// envKeys maps flag names to environment names: --output-dir reads
// NBIMAGES_OUTPUT_DIR.
var envKeys = strings.NewReplacer("-", "_")

// version is set at build time via ldflags.
var version = "dev"

// log is the diagnostics logger, configured in PersistentPreRunE.
var (
	log       = zerolog.Nop()
	logCloser io.Closer
)

// rootCmd extracts images when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "nbimages",
	Short: "Extract embedded images from Jupyter notebooks",
	Long: `nbimages scans a directory for Jupyter notebooks, writes every PNG and
JPEG image embedded in code-cell outputs to images/<notebook>/, and generates
images/image_index.md listing the extracted files per notebook.

Run without arguments to process the notebooks in the current directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		l, closer, err := logger.New(loggingConfig(), os.Stderr)
		if err != nil {
			return err
		}
		log, logCloser = l, closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
	RunE: runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./nbimages.yaml or ~/.config/nbimages/config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also write JSON logs to this file (rotated)")
	pf.Bool("pretty", true, "human-readable log output")

	addExtractFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nbimages")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nbimages"))
		}
	}

	viper.SetEnvPrefix("NBIMAGES")
	viper.SetEnvKeyReplacer(envKeys)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func loggingConfig() types.LoggingConfig {
	return types.LoggingConfig{
		Level:  viper.GetString("log-level"),
		Pretty: viper.GetBool("pretty"),
		File:   viper.GetString("log-file"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
