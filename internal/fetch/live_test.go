//go:build integration
// +build integration

package fetch

import (
	"context"
	"testing"
)

// Live smoke tests against the real upstream endpoints. Run with:
//
//	go test -tags=integration ./internal/fetch/
func TestLiveTable(t *testing.T) {
	c := NewClient()

	df, err := c.Table(context.Background(), c.DataBaseURL+"/bike-sharing-dataset.csv", TableOptions{})
	if err != nil {
		t.Fatalf("Table() error: %v", err)
	}
	if df.Nrow() == 0 {
		t.Error("Expected rows in bike sharing dataset")
	}
	if !hasColumn(df, "cnt") {
		t.Error("Expected cnt column in bike sharing dataset")
	}
}

func TestLiveWorldBankIndicator(t *testing.T) {
	c := NewClient()

	df, err := c.WorldBankIndicator(context.Background(), "SP.DYN.LE00.IN")
	if err != nil {
		t.Fatalf("WorldBankIndicator() error: %v", err)
	}
	if df.Nrow() == 0 {
		t.Error("Expected rows in life expectancy indicator")
	}
	if got := df.Names()[0]; got != "Country Name" {
		t.Errorf("First column = %q, want %q", got, "Country Name")
	}
}
