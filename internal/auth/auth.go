// Package auth provides app-only Spotify authentication using the OAuth2
// client credentials flow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTimeout bounds each HTTP round-trip to Spotify.
const DefaultTimeout = 10 * time.Second

// ErrMissingCredentials is returned when the client id or secret is empty.
var ErrMissingCredentials = errors.New("missing Spotify client id or secret")

// Config holds the Spotify application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string        // Defaults to the Spotify accounts service
	Timeout      time.Duration // Per-request timeout; defaults to DefaultTimeout
}

// Authenticator issues Spotify clients authorized as the application.
// Tokens are fetched on first use and refreshed automatically.
type Authenticator struct {
	config  clientcredentials.Config
	timeout time.Duration
}

// New creates an Authenticator.
// Returns ErrMissingCredentials if either credential is empty.
func New(cfg Config) (*Authenticator, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Authenticator{
		config: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		},
		timeout: timeout,
	}, nil
}

// HTTPClient returns an HTTP client that attaches an application token to
// every request. ctx only scopes token refreshes, not individual requests.
func (a *Authenticator) HTTPClient(ctx context.Context) *http.Client {
	base := &http.Client{Timeout: a.timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := a.config.Client(ctx)
	client.Timeout = a.timeout
	return client
}

// Client returns an authorized Spotify API client.
// Construct it once at start-up and share it; it is safe for concurrent use.
func (a *Authenticator) Client(ctx context.Context, opts ...spotify.ClientOption) *spotify.Client {
	return spotify.New(a.HTTPClient(ctx), opts...)
}

// Verify fetches a token to check that the credentials are accepted.
func (a *Authenticator) Verify(ctx context.Context) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: a.timeout})
	if _, err := a.config.Token(ctx); err != nil {
		return fmt.Errorf("requesting client credentials token: %w", err)
	}
	return nil
}
