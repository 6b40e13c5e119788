package zipapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/us/90210", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"post code": "90210",
			"places": [{
				"place name": "Beverly Hills",
				"state abbreviation": "CA",
				"latitude": "34.0901",
				"longitude": "-118.4065"
			}]
		}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
	place, err := c.Lookup(context.Background(), "90210")
	require.NoError(t, err)
	assert.Equal(t, "Beverly Hills", place.City)
	assert.Equal(t, "CA", place.State)
	assert.InDelta(t, 34.0901, place.Latitude, 0.0001)
	assert.InDelta(t, -118.4065, place.Longitude, 0.0001)
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Lookup(context.Background(), "00000")
	require.Error(t, err)
}

func TestLookup_NoPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"post code": "99999", "places": []}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Lookup(context.Background(), "99999")
	require.Error(t, err)
}

func TestLookup_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"places": [{"place name": "X", "state abbreviation": "NY", "latitude": "n/a", "longitude": "0"}]}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Lookup(context.Background(), "10001")
	require.Error(t, err)
}
