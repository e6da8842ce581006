package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/skrub-data/skrubpack/internal/dataset"
)

// irisDataset builds a 150-row single-table dataset.
func irisDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	records := [][]string{{"sepal_length", "target"}}
	for i := 0; i < 150; i++ {
		records = append(records, []string{fmt.Sprintf("%.1f", 4.0+float64(i%30)/10), fmt.Sprintf("%d", i%3)})
	}
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		t.Fatalf("failed to build iris table: %v", df.Err)
	}

	return &dataset.Dataset{
		Name:   "iris",
		Tables: map[string]dataframe.DataFrame{"iris": df},
		Meta:   dataset.Metadata{Name: "iris", Target: "target"},
	}
}

func newArchiver(t *testing.T) *Archiver {
	t.Helper()
	root := t.TempDir()
	a := &Archiver{
		DatasetsDir: filepath.Join(root, "datasets"),
		ArchivesDir: filepath.Join(root, "archives"),
	}
	for _, dir := range []string{a.DatasetsDir, a.ArchivesDir} {
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return a
}

func TestArchiveRoundTrip(t *testing.T) {
	a := newArchiver(t)
	ds := irisDataset(t)

	checksum, err := a.Archive(ds)
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	if len(checksum) != 64 || strings.ToLower(checksum) != checksum {
		t.Errorf("Archive() checksum = %q, want 64-char lowercase hex", checksum)
	}

	// The staged files.
	metaRaw, err := os.ReadFile(filepath.Join(a.DatasetsDir, "iris", "metadata.json"))
	if err != nil {
		t.Fatalf("failed to read staged metadata: %v", err)
	}
	var meta dataset.Metadata
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		t.Fatalf("failed to decode staged metadata: %v", err)
	}
	if meta.Name != "iris" || meta.Target != "target" {
		t.Errorf("staged metadata = %+v, want name iris and target target", meta)
	}

	csvRaw, err := os.ReadFile(filepath.Join(a.DatasetsDir, "iris", "iris.csv"))
	if err != nil {
		t.Fatalf("failed to read staged CSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(csvRaw), "\n"), "\n")
	if len(lines) != 151 {
		t.Errorf("staged CSV has %d lines, want 151 (header + 150 rows)", len(lines))
	}
	if lines[0] != "sepal_length,target" {
		t.Errorf("staged CSV header = %q, want %q (no index column)", lines[0], "sepal_length,target")
	}

	// The checksum matches the archive bytes.
	zipPath := filepath.Join(a.ArchivesDir, "iris.zip")
	zipRaw, err := os.ReadFile(zipPath)
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}
	if got := hex.EncodeToString(sum256(zipRaw)); got != checksum {
		t.Errorf("recomputed checksum = %s, want %s", got, checksum)
	}

	// Extracting reproduces exactly the staged files under an iris/ prefix.
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer func() { _ = zr.Close() }()

	var names []string
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		names = append(names, f.Name)
	}
	sort.Strings(names)
	want := []string{"iris/iris.csv", "iris/metadata.json"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("archive members = %v, want %v", names, want)
	}
}

func TestArchiveDuplicateNameFails(t *testing.T) {
	a := newArchiver(t)
	ds := irisDataset(t)

	if _, err := a.Archive(ds); err != nil {
		t.Fatalf("first Archive() error: %v", err)
	}
	if _, err := a.Archive(ds); err == nil {
		t.Error("Expected error when staging the same dataset name twice but got none")
	}
}

func TestArchiveDeterministicChecksum(t *testing.T) {
	first, err := newArchiver(t).Archive(irisDataset(t))
	if err != nil {
		t.Fatalf("first Archive() error: %v", err)
	}
	second, err := newArchiver(t).Archive(irisDataset(t))
	if err != nil {
		t.Fatalf("second Archive() error: %v", err)
	}
	if first != second {
		t.Errorf("checksums differ across identical runs: %s vs %s", first, second)
	}
}

func TestArchiveInvariants(t *testing.T) {
	a := newArchiver(t)

	noTables := &dataset.Dataset{
		Name: "empty",
		Meta: dataset.Metadata{Name: "empty"},
	}
	if _, err := a.Archive(noTables); err == nil {
		t.Error("Expected error for dataset without tables but got none")
	}

	ds := irisDataset(t)
	ds.Meta.Name = ""
	if _, err := a.Archive(ds); err == nil {
		t.Error("Expected error for dataset without metadata name but got none")
	}
}

func sum256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}
