package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
)

// Fixed attributes of the MovieLens small dataset.
const (
	MovieLensName        = "movielens"
	MovieLensDescription = "The MovieLens ml-latest-small dataset: 5-star ratings and " +
		"free-text tagging from the MovieLens movie recommendation service, " +
		"collected by the GroupLens research group."
)

// MovieLens fetches the GroupLens ml-latest-small archive and parses the
// named member (e.g. "movies" or "ratings") as a CSV table. Each call
// downloads the archive again; there is no caching layer.
func (c *Client) MovieLens(ctx context.Context, member string) (dataframe.DataFrame, error) {
	body, err := c.get(ctx, c.MovieLensURL)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read movielens archive: %w", err)
	}

	want := "ml-latest-small/" + member + ".csv"
	for _, f := range zr.File {
		if f.Name != want {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to open %s: %w", want, err)
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to read %s: %w", want, err)
		}
		df, err := parseTable(raw, TableOptions{})
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to parse %s: %w", want, err)
		}
		return df, nil
	}
	return dataframe.DataFrame{}, fmt.Errorf("movielens archive has no member %s", want)
}
