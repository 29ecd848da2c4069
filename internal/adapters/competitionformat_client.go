// internal/adapters/competitionformat_client.go
// Client for the external Competition Format service (spec.md §4.B):
// resolves a format name to its timing rules and progression matrix.

package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nsf-ski/race-service/internal/models"
)

// CompetitionFormatClient resolves format descriptors by name.
type CompetitionFormatClient struct {
	baseURL string
	client  *http.Client
}

// NewCompetitionFormatClient constructs a client bound to baseURL.
func NewCompetitionFormatClient(baseURL string, timeout time.Duration) *CompetitionFormatClient {
	return &CompetitionFormatClient{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

// GetFormat retrieves a competition format by name.
func (c *CompetitionFormatClient) GetFormat(ctx context.Context, name string) (*models.CompetitionFormat, error) {
	var format models.CompetitionFormat
	url := fmt.Sprintf("%s/competition-formats/%s", c.baseURL, name)
	if err := doJSON(ctx, c.client, http.MethodGet, url, nil, nil, &format); err != nil {
		return nil, err
	}
	return &format, nil
}
