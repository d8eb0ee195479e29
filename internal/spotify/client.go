// Package spotify adapts the Spotify Web API to the recommend package's
// catalog search and audio feature interfaces.
package spotify

import (
	"context"

	"github.com/zmb3/spotify/v2"
)

// DefaultMarket is the market passed to catalog search.
const DefaultMarket = "US"

// API is the subset of *spotify.Client used here.
type API interface {
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
	GetAudioFeatures(ctx context.Context, ids ...spotify.ID) ([]*spotify.AudioFeatures, error)
}

// Client wraps the Spotify API client with the lookups recommendations need.
type Client struct {
	api    API
	market string
}

// Option configures a Client.
type Option func(*Client)

// WithMarket sets the market used for catalog search.
func WithMarket(market string) Option {
	return func(c *Client) {
		if market != "" {
			c.market = market
		}
	}
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api API, opts ...Option) *Client {
	c := &Client{api: api, market: DefaultMarket}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
