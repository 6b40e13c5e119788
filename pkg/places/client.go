// Package places provides nearby-search and place-details operations against
// a Google-Places-style web service.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Place is a single nearby-search hit.
type Place struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
}

// Period is one structured open/close pair. Times are "HHMM"; an empty Close
// means the place never closes.
type Period struct {
	Open  string
	Close string
}

// Detail holds the place-details fields consumed by the pipeline.
type Detail struct {
	Phone   string
	Website string
	Periods []Period
}

// Client performs place-search provider operations.
type Client interface {
	// NearbySearch returns places of the given type around a coordinate.
	NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, placeType string) ([]Place, error)

	// KeywordSearch returns places matching a free-text keyword around a
	// coordinate.
	KeywordSearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]Place, error)

	// Details fetches phone, website, and opening periods for a place.
	Details(ctx context.Context, placeID string) (*Detail, error)
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

// NewClient creates a place-search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// searchResponse is the provider's nearby-search payload.
type searchResponse struct {
	Status  string  `json:"status"`
	Results []Place `json:"results"`
}

func (c *httpClient) NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, placeType string) ([]Place, error) {
	return c.search(ctx, lat, lng, radiusMeters, url.Values{"type": {placeType}})
}

func (c *httpClient) KeywordSearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]Place, error) {
	return c.search(ctx, lat, lng, radiusMeters, url.Values{"keyword": {keyword}})
}

func (c *httpClient) search(ctx context.Context, lat, lng float64, radiusMeters int, extra url.Values) ([]Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit")
	}

	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", lat, lng)},
		"radius":   {fmt.Sprintf("%d", radiusMeters)},
		"key":      {c.apiKey},
	}
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	body, err := c.get(ctx, c.baseURL+"/nearbysearch/json?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrap(err, "places: parse search response")
	}
	if sr.Status != "OK" && sr.Status != "ZERO_RESULTS" {
		return nil, eris.Errorf("places: search status %s", sr.Status)
	}

	return sr.Results, nil
}

// detailsResponse is the provider's place-details payload.
type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Phone        string `json:"formatted_phone_number"`
		Website      string `json:"website"`
		OpeningHours struct {
			Periods []struct {
				Open struct {
					Time string `json:"time"`
				} `json:"open"`
				Close *struct {
					Time string `json:"time"`
				} `json:"close"`
			} `json:"periods"`
		} `json:"opening_hours"`
	} `json:"result"`
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*Detail, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit")
	}

	params := url.Values{
		"place_id": {placeID},
		"fields":   {"name,formatted_phone_number,website,opening_hours"},
		"key":      {c.apiKey},
	}

	body, err := c.get(ctx, c.baseURL+"/details/json?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var dr detailsResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, eris.Wrap(err, "places: parse details response")
	}
	if dr.Status != "OK" {
		return nil, eris.Errorf("places: details status %s for %s", dr.Status, placeID)
	}

	detail := &Detail{
		Phone:   dr.Result.Phone,
		Website: dr.Result.Website,
	}
	for _, p := range dr.Result.OpeningHours.Periods {
		period := Period{Open: p.Open.Time}
		if p.Close != nil {
			period.Close = p.Close.Time
		}
		detail.Periods = append(detail.Periods, period)
	}

	return detail, nil
}

func (c *httpClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("places: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read body")
	}
	return body, nil
}
