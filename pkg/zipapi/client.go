// Package zipapi provides ZIP-to-place lookups (city, state, coordinates)
// against a zippopotam-style JSON API.
package zipapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.zippopotam.us"

// Place holds the resolved location for a ZIP code.
type Place struct {
	City      string
	State     string // two-letter abbreviation
	Latitude  float64
	Longitude float64
}

// Client resolves ZIP codes to places.
type Client interface {
	// Lookup resolves a 5-digit ZIP code. A ZIP the provider does not know
	// is an error; the caller owns the fail-to-sentinel policy.
	Lookup(ctx context.Context, zip string) (*Place, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a ZIP lookup client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// lookupResponse mirrors the provider payload. Coordinates arrive as strings.
type lookupResponse struct {
	Places []struct {
		PlaceName string `json:"place name"`
		StateAbbr string `json:"state abbreviation"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

func (c *httpClient) Lookup(ctx context.Context, zip string) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "zipapi: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/us/"+zip, nil)
	if err != nil {
		return nil, eris.Wrap(err, "zipapi: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "zipapi: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("zipapi: status %d for zip %s", resp.StatusCode, zip)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "zipapi: read body")
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, eris.Wrap(err, "zipapi: parse response")
	}
	if len(lr.Places) == 0 {
		return nil, eris.Errorf("zipapi: no places for zip %s", zip)
	}

	p := lr.Places[0]
	lat, err := strconv.ParseFloat(p.Latitude, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "zipapi: parse latitude %q", p.Latitude)
	}
	lng, err := strconv.ParseFloat(p.Longitude, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "zipapi: parse longitude %q", p.Longitude)
	}

	return &Place{
		City:      p.PlaceName,
		State:     p.StateAbbr,
		Latitude:  lat,
		Longitude: lng,
	}, nil
}
