// Package dataset defines the in-memory dataset record and the static
// catalog of datasets to package.
package dataset

import (
	"encoding/json"

	"github.com/go-gota/gota/dataframe"
)

// Dataset represents one dataset to package: a unique name, one or more
// named tables, and the metadata written alongside them.
//
// The name doubles as the staging directory name and the checksum manifest
// key. Table map keys are the stems of the CSV files written for the
// dataset; their iteration order is irrelevant.
type Dataset struct {
	Name   string
	Tables map[string]dataframe.DataFrame
	Meta   Metadata
}

// Metadata represents the content of a dataset's metadata.json.
// Every field except Name is optional and omitted from the JSON when empty.
// Field order here fixes the serialized key order.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      Source `json:"source,omitempty"`
	Target      string `json:"target,omitempty"`
}

// Source lists the origin URLs of a dataset. A single origin serializes as
// a bare JSON string, several as an array of strings.
type Source []string

// MarshalJSON implements json.Marshaler.
func (s Source) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}

// UnmarshalJSON implements json.Unmarshaler, accepting both forms.
func (s *Source) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = Source{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = Source(many)
	return nil
}
