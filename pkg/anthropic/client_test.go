package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubClient struct {
	resp *MessageResponse
	err  error
	last MessageRequest
}

func (s *stubClient) CreateMessage(_ context.Context, req MessageRequest) (*MessageResponse, error) {
	s.last = req
	return s.resp, s.err
}

func TestStubImplementsClient(t *testing.T) {
	var _ Client = (*stubClient)(nil)
}

func TestResponseText(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "Hello "},
		{Type: "thinking", Text: "ignored"},
		{Type: "text", Text: "world."},
	}}
	assert.Equal(t, "Hello world.", resp.Text())

	empty := &MessageResponse{}
	assert.Equal(t, "", empty.Text())
}

func TestToSDKMessagesRoles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})
	assert.Len(t, msgs, 2)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
}
