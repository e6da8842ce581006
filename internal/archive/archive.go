// Package archive materializes datasets to disk: staged CSV and metadata
// files, a zip archive per dataset, and the checksum manifest.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/skrub-data/skrubpack/internal/dataset"
)

// zipEpoch is the fixed modification time of every zip entry, so archive
// bytes depend only on content and checksums are reproducible across runs.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Archiver writes datasets under DatasetsDir and archives under ArchivesDir.
// Both directories must exist.
type Archiver struct {
	DatasetsDir string
	ArchivesDir string
}

// Archive stages one dataset, zips it, and returns the lowercase hex SHA-256
// of the archive bytes.
//
// The staging subdirectory is created fresh and must not already exist;
// archiving the same dataset name twice in one run fails rather than
// overwriting. Staged files are not cleaned up afterwards.
func (a *Archiver) Archive(ds *dataset.Dataset) (string, error) {
	if ds.Meta.Name == "" {
		return "", fmt.Errorf("dataset %s has no metadata name", ds.Name)
	}
	if len(ds.Tables) == 0 {
		return "", fmt.Errorf("dataset %s has no tables", ds.Name)
	}

	dir := filepath.Join(a.DatasetsDir, ds.Name)
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dataset directory: %w", err)
	}

	meta, err := json.Marshal(ds.Meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), meta, 0644); err != nil {
		return "", fmt.Errorf("failed to write metadata.json: %w", err)
	}

	for stem, df := range ds.Tables {
		if err := writeCSV(filepath.Join(dir, stem+".csv"), df); err != nil {
			return "", fmt.Errorf("failed to write table %s: %w", stem, err)
		}
	}

	zipPath := filepath.Join(a.ArchivesDir, ds.Name+".zip")
	if err := writeZip(zipPath, a.DatasetsDir, ds.Name); err != nil {
		return "", fmt.Errorf("failed to create archive for %s: %w", ds.Name, err)
	}

	checksum, err := fileSHA256(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to hash archive for %s: %w", ds.Name, err)
	}
	return checksum, nil
}

func writeCSV(path string, df dataframe.DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeZip builds <zipPath> from root/name, with entries rooted at name/ in
// lexical walk order.
func writeZip(zipPath, root, name string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)
	walkErr := filepath.WalkDir(filepath.Join(root, name), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hdr := &zip.FileHeader{
			Name:     filepath.ToSlash(rel),
			Method:   zip.Deflate,
			Modified: zipEpoch,
		}
		if d.IsDir() {
			hdr.Name += "/"
			hdr.Method = zip.Store
			_, err := zw.CreateHeader(hdr)
			return err
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		_ = src.Close()
		return err
	})
	if walkErr != nil {
		_ = zw.Close()
		_ = f.Close()
		return walkErr
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
