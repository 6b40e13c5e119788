package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeExtractsContactData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "SiteScoutBot")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
<p>Corner Mart, family owned since 1998.</p>
<p>Call (212) 555-0100 or email info@cornermart.example.com.</p>
<script>trackVisit("(999) 999-9999");</script>
</body></html>`))
	}))
	defer srv.Close()

	c := NewScraper().Scrape(context.Background(), srv.URL)

	assert.Equal(t, []string{"info@cornermart.example.com"}, c.Emails)
	assert.Equal(t, []string{"(212) 555-0100"}, c.Phones)
	require.Len(t, c.OwnerLines, 1)
	assert.Contains(t, c.OwnerLines[0], "family owned")
}

func TestScrapeEmptyURLSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewScraper().Scrape(context.Background(), "")

	assert.False(t, c.HasAny())
	assert.Zero(t, calls.Load())
}

func TestScrapeErrorStatusYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewScraper().Scrape(context.Background(), srv.URL)

	assert.False(t, c.HasAny())
}

func TestScrapeUnreachableHostYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewScraper().Scrape(context.Background(), srv.URL)

	assert.False(t, c.HasAny())
}

func TestScrapeDecodesDeclaredCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Propriétaire" with a Latin-1 e-acute, plus an owner keyword line.
		_, _ = w.Write([]byte("<p>Propri\xe9taire and owner: caf\xe9@bistro.example.com</p>"))
	}))
	defer srv.Close()

	c := NewScraper().Scrape(context.Background(), srv.URL)

	require.Len(t, c.OwnerLines, 1)
	assert.Contains(t, c.OwnerLines[0], "Propriétaire")
}

func TestScrapeRespectsBodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<p>manager on duty.</p>"))
		// Padding beyond the cap; the phone below must never be read.
		padding := []byte(strings.Repeat("x", 64))
		for i := 0; i < 1024; i++ {
			_, _ = w.Write(padding)
		}
		_, _ = w.Write([]byte("(212) 555-0100"))
	}))
	defer srv.Close()

	c := NewScraper(WithMaxBodyBytes(1024)).Scrape(context.Background(), srv.URL)

	require.Len(t, c.OwnerLines, 1)
	assert.Empty(t, c.Phones)
}
