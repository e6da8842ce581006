// Package skrubpack packages the skrub example datasets into checksummed
// zip archives.
//
// A run fetches each dataset from its remote source, stages its tables as
// CSV files next to a metadata.json, zips the staged directory, and records
// a SHA-256 checksum per archive in a final manifest. Everything is strictly
// sequential: one dataset is fetched, staged, archived, and hashed before
// the next begins.
//
// # Quick Start
//
//	result, err := skrubpack.Run(context.Background(), &skrubpack.Options{
//		OutputDir: "/data/exports",
//	})
//
// # Output Layout
//
// Each run creates a timestamped directory under the output root:
//
//	<output_dir>/skrub_datasets_<YYYY-MM-DDThh-mmss>/
//	  datasets/<dataset_name>/metadata.json
//	  datasets/<dataset_name>/<table_stem>.csv
//	  archives/<dataset_name>.zip
//	  archives/sha256_checksums.json
//
// Any failure aborts the run immediately: staged files and archives built so
// far remain on disk, but no checksum manifest is written.
package skrubpack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skrub-data/skrubpack/internal/archive"
	"github.com/skrub-data/skrubpack/internal/dataset"
	"github.com/skrub-data/skrubpack/internal/fetch"
	"github.com/skrub-data/skrubpack/internal/logging"
)

// Options configures a packaging run.
//
// All fields are optional; the zero value runs against the real upstream
// endpoints and writes into the current working directory.
type Options struct {
	// OutputDir is the root under which the timestamped run directory is
	// created. Defaults to the current working directory.
	OutputDir string

	// Verbose enables debug diagnostics on stderr.
	Verbose bool

	// Client overrides the remote-source client, mainly so tests can point
	// the run at local servers. Defaults to the real endpoints.
	Client *fetch.Client

	// Logger overrides the default stdout/stderr logger.
	Logger *logging.Logger
}

// Result describes a completed run.
type Result struct {
	// RunDir is the timestamped run directory.
	RunDir string

	// ArchivesDir holds the zip archives and the checksum manifest.
	ArchivesDir string

	// Manifest maps each dataset name to its archive checksum, in
	// processing order.
	Manifest *archive.Manifest
}

// Run executes a full packaging run: every dataset in the catalog is
// fetched, staged, archived, and hashed, then the checksum manifest is
// written. The first error aborts the run and no manifest is written.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	client := opts.Client
	if client == nil {
		client = fetch.NewClient()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger(os.Stdout, os.Stderr, opts.Verbose)
	}

	runDir, datasetsDir, archivesDir, err := createRunDirs(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	logger.Out("saving output in %s", runDir)

	archiver := &archive.Archiver{
		DatasetsDir: datasetsDir,
		ArchivesDir: archivesDir,
	}
	manifest := archive.NewManifest()

	for _, entry := range dataset.Entries() {
		logger.Out("%s", entry.Name)

		ds, err := entry.Load(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset %s: %w", entry.Name, err)
		}

		// A dataset with several tables has no single well-defined target
		// column.
		if len(ds.Tables) > 1 {
			ds.Meta.Target = ""
		}

		checksum, err := archiver.Archive(ds)
		if err != nil {
			return nil, fmt.Errorf("failed to archive dataset %s: %w", ds.Name, err)
		}
		logger.Debug("archive", "%s sha256=%s", ds.Name, checksum)
		manifest.Add(ds.Name, checksum)
	}

	if err := manifest.WriteFile(filepath.Join(archivesDir, "sha256_checksums.json")); err != nil {
		return nil, err
	}
	logger.Out("archive files saved in %s", archivesDir)

	return &Result{
		RunDir:      runDir,
		ArchivesDir: archivesDir,
		Manifest:    manifest,
	}, nil
}

// createRunDirs resolves the output root and creates the timestamped run
// directory with its datasets/ and archives/ subdirectories. The run
// directory itself must not already exist.
func createRunDirs(outputDir string) (runDir, datasetsDir, archivesDir string, err error) {
	root := outputDir
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return "", "", "", fmt.Errorf("failed to resolve working directory: %w", err)
		}
	} else {
		root, err = filepath.Abs(root)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to resolve output directory: %w", err)
		}
	}

	runDir = filepath.Join(root, "skrub_datasets_"+time.Now().Format("2006-01-02T15-0405"))
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", "", "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.Mkdir(runDir, 0755); err != nil {
		return "", "", "", fmt.Errorf("failed to create run directory: %w", err)
	}

	datasetsDir = filepath.Join(runDir, "datasets")
	if err := os.Mkdir(datasetsDir, 0755); err != nil {
		return "", "", "", fmt.Errorf("failed to create datasets directory: %w", err)
	}
	archivesDir = filepath.Join(runDir, "archives")
	if err := os.Mkdir(archivesDir, 0755); err != nil {
		return "", "", "", fmt.Errorf("failed to create archives directory: %w", err)
	}
	return runDir, datasetsDir, archivesDir, nil
}
