// Package census provides ZCTA population lookups against the ACS 5-year API.
package census

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.census.gov/data/2023/acs/acs5"

// populationVariable is the ACS total-population estimate.
const populationVariable = "B01003_001E"

// Client looks up demographic statistics keyed by ZCTA.
type Client interface {
	// Population returns the total population for a 5-digit ZIP code.
	// Any transport, status, or parse failure is an error; the caller owns
	// the fail-to-zero policy.
	Population(ctx context.Context, zip string) (int, error)
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
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a census API client. The API key is optional for low
// request volumes.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(10, 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Population(ctx context.Context, zip string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, eris.Wrap(err, "census: rate limit")
	}

	params := url.Values{
		"get": {populationVariable},
		"for": {"zip code tabulation area:" + zip},
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, eris.Wrap(err, "census: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, eris.Wrap(err, "census: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return 0, eris.Errorf("census: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, eris.Wrap(err, "census: read body")
	}

	// The ACS API returns an array-of-arrays: a header row followed by one
	// row of string values per matched geography.
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, eris.Wrap(err, "census: parse response")
	}
	if len(rows) < 2 || len(rows[1]) == 0 {
		return 0, eris.Errorf("census: no data for zcta %s", zip)
	}

	pop, err := strconv.Atoi(rows[1][0])
	if err != nil {
		return 0, eris.Wrapf(err, "census: parse population %q", rows[1][0])
	}
	if pop < 0 {
		// ACS uses negative codes for suppressed estimates.
		return 0, eris.Errorf("census: suppressed estimate %d for zcta %s", pop, zip)
	}

	return pop, nil
}
