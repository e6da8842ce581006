package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Manifest maps dataset names to archive checksums. Entries serialize in
// insertion order, so manifest output reproduces the processing order
// instead of Go's sorted map keys.
type Manifest struct {
	names []string
	sums  map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{sums: make(map[string]string)}
}

// Add records the checksum for a dataset name.
func (m *Manifest) Add(name, checksum string) {
	if _, ok := m.sums[name]; !ok {
		m.names = append(m.names, name)
	}
	m.sums[name] = checksum
}

// Get returns the checksum recorded for a dataset name.
func (m *Manifest) Get(name string) (string, bool) {
	sum, ok := m.sums[name]
	return sum, ok
}

// Len returns the number of recorded entries.
func (m *Manifest) Len() int {
	return len(m.names)
}

// Names returns the dataset names in insertion order.
func (m *Manifest) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// MarshalJSON implements json.Marshaler, emitting an object whose keys
// appear in insertion order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.sums[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteFile writes the manifest as UTF-8 JSON text to path.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode checksum manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write checksum manifest: %w", err)
	}
	return nil
}
