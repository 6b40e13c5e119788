package census

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulation_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "B01003_001E", r.URL.Query().Get("get"))
		assert.Equal(t, "zip code tabulation area:90210", r.URL.Query().Get("for"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[["B01003_001E","zip code tabulation area"],["20000","90210"]]`)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithRateLimit(1000))
	pop, err := c.Population(context.Background(), "90210")
	require.NoError(t, err)
	assert.Equal(t, 20000, pop)
}

func TestPopulation_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"not":"an array"}`)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Population(context.Background(), "90210")
	require.Error(t, err)
}

func TestPopulation_EmptyRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[["B01003_001E","zip code tabulation area"]]`)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Population(context.Background(), "99999")
	require.Error(t, err)
}

func TestPopulation_SuppressedEstimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[["B01003_001E","zip code tabulation area"],["-666666666","00501"]]`)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Population(context.Background(), "00501")
	require.Error(t, err)
}

func TestPopulation_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Population(context.Background(), "90210")
	require.Error(t, err)
}

func TestPopulation_KeyForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		_, _ = io.WriteString(w, `[["B01003_001E","zip code tabulation area"],["123","10001"]]`)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL), WithRateLimit(1000))
	pop, err := c.Population(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, 123, pop)
}
