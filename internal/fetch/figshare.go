package fetch

import (
	"context"

	"github.com/go-gota/gota/dataframe"
)

// Figshare fetches a hosted file by its numeric id and parses it as a CSV
// table.
func (c *Client) Figshare(ctx context.Context, fileID string) (dataframe.DataFrame, error) {
	return c.Table(ctx, c.FigshareBaseURL+"/"+fileID, TableOptions{})
}
