// internal/adapters/events_client.go
// Client for the external Events service (spec.md §4.B): resolves an
// event_id to its date, competition format name, and list of raceclasses.

package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nsf-ski/race-service/internal/models"
)

// EventsClient resolves event and raceclass data from the Events service.
type EventsClient struct {
	baseURL string
	client  *http.Client
}

// NewEventsClient constructs a client bound to baseURL.
func NewEventsClient(baseURL string, timeout time.Duration) *EventsClient {
	return &EventsClient{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

// GetEvent retrieves the event's core attributes.
func (c *EventsClient) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	url := fmt.Sprintf("%s/events/%s", c.baseURL, eventID)
	if err := doJSON(ctx, c.client, http.MethodGet, url, nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetRaceclasses retrieves the raceclasses configured for an event.
func (c *EventsClient) GetRaceclasses(ctx context.Context, eventID string) ([]models.Raceclass, error) {
	var raceclasses []models.Raceclass
	url := fmt.Sprintf("%s/events/%s/raceclasses", c.baseURL, eventID)
	if err := doJSON(ctx, c.client, http.MethodGet, url, nil, nil, &raceclasses); err != nil {
		return nil, err
	}
	return raceclasses, nil
}

// GetContestants retrieves contestants registered in a raceclass, used by
// the startlist generator (spec.md §4.E) to seed starting order.
func (c *EventsClient) GetContestants(ctx context.Context, eventID, raceclass string) ([]models.Contestant, error) {
	var contestants []models.Contestant
	url := fmt.Sprintf("%s/events/%s/raceclasses/%s/contestants", c.baseURL, eventID, raceclass)
	if err := doJSON(ctx, c.client, http.MethodGet, url, nil, nil, &contestants); err != nil {
		return nil, err
	}
	return contestants, nil
}
