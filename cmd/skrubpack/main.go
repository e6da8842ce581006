package main

import (
	"context"
	"fmt"
	"os"

	"github.com/skrub-data/skrubpack"
	"github.com/spf13/cobra"
)

var outputDir string

var rootCmd = &cobra.Command{
	Use:   "skrubpack",
	Short: "Package the skrub example datasets into checksummed archives",
	Long: `skrubpack fetches the skrub example datasets from their remote sources,
writes each one as CSV tables plus a metadata.json, zips every dataset, and
records a SHA-256 checksum manifest.

A timestamped subdirectory containing all the archives is created under the
output directory.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "where to store the output (default: current directory)")
}

func run(cmd *cobra.Command, args []string) error {
	_, err := skrubpack.Run(context.Background(), &skrubpack.Options{
		OutputDir: outputDir,
	})
	if err != nil {
		return fmt.Errorf("failed to package datasets: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
