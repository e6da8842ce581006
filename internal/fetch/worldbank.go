package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// WorldBankIndicator fetches one indicator from the World Bank open-data API
// and returns a two-column dataframe [Country Name, <indicator name>].
//
// The API serves a zip containing one API_*.csv data member plus metadata
// files. The data member has a few preamble rows above its real header, one
// column per year, and many empty cells; the most recent year column that
// holds any value is selected and countries without a value are dropped.
func (c *Client) WorldBankIndicator(ctx context.Context, indicatorID string) (dataframe.DataFrame, error) {
	url := fmt.Sprintf("%s/%s?downloadformat=csv", c.WorldBankBaseURL, indicatorID)

	body, err := c.get(ctx, url)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	raw, err := readWorldBankMember(body)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read indicator %s archive: %w", indicatorID, err)
	}

	df, err := parseWorldBankCSV(raw, indicatorID)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse indicator %s: %w", indicatorID, err)
	}
	return df, nil
}

// readWorldBankMember extracts the API_*.csv data member from the zip.
func readWorldBankMember(body []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		base := path.Base(f.Name)
		if !strings.HasPrefix(base, "API_") || !strings.HasSuffix(base, ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		return raw, nil
	}
	return nil, fmt.Errorf("no API_*.csv member found")
}

func parseWorldBankCSV(raw []byte, indicatorID string) (dataframe.DataFrame, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	// The real header is the first row starting with "Country Name"; rows
	// above it are preamble.
	headerIdx := -1
	for i, rec := range records {
		if len(rec) > 0 && rec[0] == "Country Name" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no Country Name header row found")
	}
	header := records[headerIdx]
	rows := records[headerIdx+1:]

	nameIdx := -1
	var yearCols []int
	for i, col := range header {
		if col == "Indicator Name" {
			nameIdx = i
		}
		if isYear(col) {
			yearCols = append(yearCols, i)
		}
	}
	if len(yearCols) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no year columns found")
	}

	valueIdx := latestPopulatedColumn(rows, yearCols)
	if valueIdx < 0 {
		return dataframe.DataFrame{}, fmt.Errorf("all year columns are empty")
	}

	indicatorName := indicatorID
	if nameIdx >= 0 {
		for _, row := range rows {
			if nameIdx < len(row) && row[nameIdx] != "" {
				indicatorName = row[nameIdx]
				break
			}
		}
	}

	out := [][]string{{"Country Name", indicatorName}}
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if valueIdx < len(row) && row[valueIdx] != "" {
			out = append(out, []string{row[0], row[valueIdx]})
		}
	}

	df := dataframe.LoadRecords(out,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// latestPopulatedColumn returns the right-most candidate column holding at
// least one value, or -1 if all are empty.
func latestPopulatedColumn(rows [][]string, candidates []int) int {
	for i := len(candidates) - 1; i >= 0; i-- {
		col := candidates[i]
		for _, row := range rows {
			if col < len(row) && row[col] != "" {
				return col
			}
		}
	}
	return -1
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
