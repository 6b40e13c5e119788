package places

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearbySearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nearbysearch/json", r.URL.Path)
		assert.Equal(t, "gas_station", r.URL.Query().Get("type"))
		assert.Equal(t, "1600", r.URL.Query().Get("radius"))
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"results": [
				{"place_id": "p1", "name": "Shell", "vicinity": "1 Main St"},
				{"place_id": "p2", "name": "Chevron", "vicinity": "2 Oak Ave"}
			]
		}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1000))
	hits, err := c.NearbySearch(context.Background(), 34.09, -118.4, 1600, "gas_station")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "p1", hits[0].PlaceID)
	assert.Equal(t, "Shell", hits[0].Name)
	assert.Equal(t, "1 Main St", hits[0].Vicinity)
}

func TestNearbySearch_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS", "results": []}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1000))
	hits, err := c.NearbySearch(context.Background(), 0, 0, 1600, "pharmacy")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestNearbySearch_DeniedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "REQUEST_DENIED", "results": []}`)
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.NearbySearch(context.Background(), 0, 0, 1600, "pharmacy")
	require.Error(t, err)
}

func TestKeywordSearch_SendsKeyword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin atm", r.URL.Query().Get("keyword"))
		assert.Empty(t, r.URL.Query().Get("type"))
		_, _ = io.WriteString(w, `{"status": "OK", "results": [{"place_id": "b1", "name": "Coin Kiosk"}]}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1000))
	hits, err := c.KeywordSearch(context.Background(), 34.09, -118.4, 1600, "bitcoin atm")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b1", hits[0].PlaceID)
}

func TestDetails_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "p1", r.URL.Query().Get("place_id"))
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"result": {
				"formatted_phone_number": "(310) 555-0100",
				"website": "https://example.com",
				"opening_hours": {
					"periods": [
						{"open": {"day": 1, "time": "0900"}, "close": {"day": 1, "time": "1700"}},
						{"open": {"day": 2, "time": "2200"}}
					]
				}
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1000))
	d, err := c.Details(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "(310) 555-0100", d.Phone)
	assert.Equal(t, "https://example.com", d.Website)
	require.Len(t, d.Periods, 2)
	assert.Equal(t, Period{Open: "0900", Close: "1700"}, d.Periods[0])
	assert.Equal(t, Period{Open: "2200"}, d.Periods[1])
}

func TestDetails_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "NOT_FOUND"}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Details(context.Background(), "missing")
	require.Error(t, err)
}
