// internal/adapters/http.go
// Shared HTTP plumbing for the three external collaborators (spec.md §6):
// the Events, Competition Format, and Users services. Grounded on the
// teacher's preference for a single pooled *http.Client per external
// dependency (see other_services.go's thin-wrapper services) generalized
// here into real outbound calls instead of TODO stubs, since these
// adapters are load-bearing rather than optional in this domain.

package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nsf-ski/race-service/internal/apperrors"
)

// sharedTransport is the one connection pool shared across adapters.
var sharedTransport = &http.Transport{
	MaxIdleConns:        50,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// newHTTPClient returns a client with its own timeout over sharedTransport.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}

// doJSON performs an HTTP request with an optional JSON body and decodes a
// JSON response into out (if non-nil). Non-2xx responses become a
// apperrors.Dependency error so callers can surface a clean 502 instead of
// leaking transport details.
func doJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "encoding request body", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "building request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.Dependency, fmt.Sprintf("calling %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return apperrors.New(apperrors.Dependency, fmt.Sprintf("%s returned %d: %s", url, resp.StatusCode, string(payload)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.Dependency, fmt.Sprintf("decoding response from %s", url), err)
	}
	return nil
}
