package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// SimpleSpec describes one hosted CSV dataset that needs no shaping beyond
// splitting off its target column.
type SimpleSpec struct {
	// Fetcher is the upstream fetcher identifier, e.g. "fetch_toxicity".
	// The dataset name is the identifier with the "fetch_" prefix removed.
	Fetcher string

	// File is the CSV file name under the hosted data base URL.
	File string

	// Target is the name of the target column in the hosted CSV.
	Target string

	Description string
}

// Name returns the dataset name derived from the fetcher identifier.
func (s SimpleSpec) Name() string {
	return strings.TrimPrefix(s.Fetcher, "fetch_")
}

// SimpleResult mirrors the attributes exposed by the upstream simple
// fetchers: a feature table X, a target vector Y, and descriptive fields.
type SimpleResult struct {
	X           dataframe.DataFrame
	Y           series.Series
	Name        string
	Target      string
	Description string
	Source      string
}

// Simple fetches a hosted CSV dataset and splits off its declared target
// column. A missing target column is a data-shape failure.
func (c *Client) Simple(ctx context.Context, spec SimpleSpec) (*SimpleResult, error) {
	url := c.DataBaseURL + "/" + spec.File

	df, err := c.Table(ctx, url, TableOptions{})
	if err != nil {
		return nil, err
	}

	if !hasColumn(df, spec.Target) {
		return nil, fmt.Errorf("dataset %s has no column %q", spec.Name(), spec.Target)
	}

	y := df.Col(spec.Target)
	x := df.Drop(spec.Target)
	if x.Err != nil {
		return nil, fmt.Errorf("failed to split target column %q: %w", spec.Target, x.Err)
	}

	return &SimpleResult{
		X:           x,
		Y:           y,
		Name:        spec.Name(),
		Target:      spec.Target,
		Description: spec.Description,
		Source:      url,
	}, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, col := range df.Names() {
		if col == name {
			return true
		}
	}
	return false
}
