// Package scrape extracts owner contact data from business websites. A fetch
// or parse failure yields the empty contact instance, never an error: a
// business without a reachable site simply contributes no scraped contacts.
package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/kioskworks/sitescout/internal/model"
)

const defaultMaxBodyBytes = 512 * 1024

// Scraper fetches a website and extracts contact data from its text.
type Scraper struct {
	client       *http.Client
	maxBodyBytes int64
}

// Option configures the scraper.
type Option func(*Scraper)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) { s.client = hc }
}

// WithTimeout sets the overall fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithMaxBodyBytes caps how much of a page body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Scraper) { s.maxBodyBytes = n }
}

// NewScraper creates a scraper with sensible defaults.
func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape fetches a website and extracts emails, phone numbers, and
// owner-indicative lines from its visible text. An empty URL returns the
// empty instance without a network call.
func (s *Scraper) Scrape(ctx context.Context, websiteURL string) model.OwnerContact {
	if websiteURL == "" {
		return model.OwnerContact{}
	}

	text, err := s.fetchText(ctx, websiteURL)
	if err != nil {
		zap.L().Debug("website scrape failed", zap.String("url", websiteURL), zap.Error(err))
		return model.OwnerContact{}
	}

	return Extract(text)
}

func (s *Scraper) fetchText(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; SiteScoutBot/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodyBytes))
	if err != nil {
		return "", err
	}

	body = decodeCharset(resp.Header.Get("Content-Type"), body)
	return stripHTML(string(body)), nil
}

type statusError struct{ code int }

func (e *statusError) Error() string {
	return "scrape: status " + http.StatusText(e.code)
}

// decodeCharset converts a non-UTF-8 body to UTF-8 using the charset named
// in the Content-Type header. Unknown or absent charsets pass through.
func decodeCharset(contentType string, body []byte) []byte {
	_, after, found := strings.Cut(strings.ToLower(contentType), "charset=")
	if !found {
		return body
	}
	charset := strings.Trim(strings.TrimSpace(after), `"`)
	if i := strings.IndexByte(charset, ';'); i >= 0 {
		charset = charset[:i]
	}
	if charset == "" || charset == "utf-8" {
		return body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

// stripHTML removes scripts/styles/nav/footer, strips tags, decodes entities,
// and collapses whitespace into extraction-ready plaintext.
func stripHTML(html string) string {
	for _, tag := range []string{"script", "style", "nav", "footer"} {
		re := regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
		html = re.ReplaceAllString(html, "")
	}

	tagRe := regexp.MustCompile(`<[^>]+>`)
	html = tagRe.ReplaceAllString(html, " ")

	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	html = r.Replace(html)

	spaceRe := regexp.MustCompile(`[ \t]+`)
	html = spaceRe.ReplaceAllString(html, " ")

	nlRe := regexp.MustCompile(`\n{3,}`)
	html = nlRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
