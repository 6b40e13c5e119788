package notion

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestWithRateLimit(t *testing.T) {
	c := &notionClient{limiter: rate.NewLimiter(3, 1)}
	WithRateLimit(10)(c)
	require.NotNil(t, c.limiter)
	assert.Equal(t, rate.Limit(10), c.limiter.Limit())

	WithRateLimit(0)(c)
	assert.Nil(t, c.limiter)
}

func TestWaitRespectsContext(t *testing.T) {
	// Burst already consumed, so the next wait blocks until cancellation.
	c := &notionClient{limiter: rate.NewLimiter(rate.Limit(0.001), 1)}
	require.NoError(t, c.wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.wait(ctx))
}

type stubClient struct {
	pages []*notionapi.PageCreateRequest
}

func (s *stubClient) CreatePage(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	s.pages = append(s.pages, req)
	return &notionapi.Page{ID: "page-1"}, nil
}

func TestStubImplementsClient(t *testing.T) {
	var _ Client = (*stubClient)(nil)
}
