// Package fetch retrieves remote dataset content over HTTP and parses it
// into gota dataframes.
package fetch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Default endpoints for the upstream dataset sources.
const (
	DefaultDataBaseURL      = "https://raw.githubusercontent.com/skrub-data/datasets/master/data"
	DefaultWorldBankBaseURL = "https://api.worldbank.org/v2/en/indicator"
	DefaultFigshareBaseURL  = "https://figshare.com/ndownloader/files"
	DefaultMovieLensURL     = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"
	DefaultVGSalesURL       = "https://raw.githubusercontent.com/William2064888/vgsales.csv/main/vgsales.csv"
)

// Client fetches remote dataset content. The endpoint bases are exported so
// tests can point them at local servers. The HTTP client carries no timeout:
// a hung remote call stalls the whole run.
type Client struct {
	HTTPClient *http.Client

	DataBaseURL      string
	WorldBankBaseURL string
	FigshareBaseURL  string
	MovieLensURL     string
	VGSalesURL       string
}

// NewClient creates a client pointed at the real upstream endpoints.
func NewClient() *Client {
	return &Client{
		HTTPClient:       &http.Client{},
		DataBaseURL:      DefaultDataBaseURL,
		WorldBankBaseURL: DefaultWorldBankBaseURL,
		FigshareBaseURL:  DefaultFigshareBaseURL,
		MovieLensURL:     DefaultMovieLensURL,
		VGSalesURL:       DefaultVGSalesURL,
	}
}

// TableOptions configures CSV parsing in Table.
type TableOptions struct {
	// Delimiter is the field separator. Zero means comma.
	Delimiter rune

	// SkipBadRows drops records whose field count differs from the header
	// instead of failing the parse.
	SkipBadRows bool

	// TrimThousands strips "," thousands separators from numeric-looking
	// cells, e.g. "1,234.5" becomes "1234.5".
	TrimThousands bool
}

// Table fetches a CSV document from url and parses it into a string
// dataframe. Cells pass through as raw text: no type detection, so a table
// written back to CSV reproduces the upstream values.
func (c *Client) Table(ctx context.Context, url string, opts TableOptions) (dataframe.DataFrame, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	df, err := parseTable(body, opts)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse CSV from %s: %w", url, err)
	}
	return df, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return body, nil
}

var thousandsPattern = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)

// parseTable parses raw CSV bytes into a string dataframe.
func parseTable(body []byte, opts TableOptions) (dataframe.DataFrame, error) {
	r := csv.NewReader(bytes.NewReader(body))
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("document has no header row")
	}

	header := records[0]
	kept := records[:1]
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			if opts.SkipBadRows {
				continue
			}
			return dataframe.DataFrame{}, fmt.Errorf("row %d has %d fields, want %d", i+2, len(rec), len(header))
		}
		if opts.TrimThousands {
			for j, cell := range rec {
				rec[j] = trimThousands(cell)
			}
		}
		kept = append(kept, rec)
	}

	df := dataframe.LoadRecords(kept,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

func trimThousands(cell string) string {
	if !thousandsPattern.MatchString(cell) {
		return cell
	}
	out := make([]byte, 0, len(cell))
	for i := 0; i < len(cell); i++ {
		if cell[i] != ',' {
			out = append(out, cell[i])
		}
	}
	return string(out)
}
