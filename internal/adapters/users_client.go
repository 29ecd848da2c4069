// internal/adapters/users_client.go
// Client for the external Users service (spec.md §6): the sole holder of
// authentication/authorization decisions. This service never verifies
// credentials or signatures locally — it asks the Users service whether a
// bearer token is valid and, if so, who it belongs to.

package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nsf-ski/race-service/internal/apperrors"
)

// UsersClient delegates authorization decisions to the Users service.
type UsersClient struct {
	baseURL  string
	client   *http.Client
	username string
	password string
}

// NewUsersClient constructs a client bound to baseURL, with admin
// credentials used to obtain service-to-service tokens when needed.
func NewUsersClient(baseURL, username, password string, timeout time.Duration) *UsersClient {
	return &UsersClient{
		baseURL:  baseURL,
		client:   newHTTPClient(timeout),
		username: username,
		password: password,
	}
}

type authorizeRequest struct {
	Token string `json:"token"`
}

type authorizeResponse struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// Authorize asks the Users service whether token is currently valid, and if
// so returns the subject (user id) it belongs to. Any non-2xx response,
// including one denoting an expired or malformed token, becomes an AUTH
// error rather than a DEPENDENCY error, since the Users service is
// authoritative about token validity, not merely unavailable.
func (c *UsersClient) Authorize(ctx context.Context, token string) (string, error) {
	var out authorizeResponse
	url := fmt.Sprintf("%s/authorize", c.baseURL)
	err := doJSON(ctx, c.client, http.MethodPost, url, nil, authorizeRequest{Token: token}, &out)
	if err != nil {
		if e, ok := apperrors.As(err); ok && e.Kind == apperrors.Dependency {
			return "", apperrors.Wrap(apperrors.Auth, "token rejected by users service", e)
		}
		return "", err
	}
	return out.Subject, nil
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ObtainAdminToken logs in with the configured admin credentials and
// returns a bearer token this service can use on its own outbound calls
// that require authorization, per spec.md §6.
func (c *UsersClient) ObtainAdminToken(ctx context.Context) (string, error) {
	var out tokenResponse
	url := fmt.Sprintf("%s/login", c.baseURL)
	body := tokenRequest{Username: c.username, Password: c.password}
	if err := doJSON(ctx, c.client, http.MethodPost, url, nil, body, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// subjectFromClaims is a local, unverified peek at a token's claims — never
// used for a trust decision. Authorize does not call it and keeps no cache;
// every token is checked by the Users service.
func subjectFromClaims(token string) (string, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return "", false
	}
	sub, ok := claims["sub"].(string)
	return sub, ok
}
