package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentcore/core"
	"agentcore/provider"
)

type echoProvider struct {
	reply string
	err   error
	tools []core.ToolSpec
}

func (p *echoProvider) Name() string { return "echo" }

func (p *echoProvider) GenerateResponse(_ context.Context, _ []core.Message, _ string, tools []core.ToolSpec) (*provider.Response, error) {
	p.tools = tools
	if p.err != nil {
		return nil, p.err
	}
	return &provider.Response{Text: p.reply}, nil
}

func (p *echoProvider) ListModels(_ context.Context) ([]string, error) {
	return []string{"test-model"}, nil
}

func TestSendAppendsBothSides(t *testing.T) {
	p := &echoProvider{reply: "hi there"}
	c := NewConversation(p, "test-model", func(o *Options) {
		o.SystemPrompt = "Be brief."
	})

	reply, err := c.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	history := c.History()
	require.Len(t, history, 3)
	assert.Equal(t, core.RoleSystem, history[0].Role)
	assert.Equal(t, "Be brief.", history[0].Content)
	assert.Equal(t, core.RoleUser, history[1].Role)
	assert.Equal(t, "hello", history[1].Content)
	assert.Equal(t, core.RoleAssistant, history[2].Role)
	assert.Equal(t, "hi there", history[2].Content)
}

func TestSendOffersNoTools(t *testing.T) {
	p := &echoProvider{reply: "ok"}
	c := NewConversation(p, "test-model")

	_, err := c.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Nil(t, p.tools)
}

func TestSendErrorLeavesUserMessage(t *testing.T) {
	p := &echoProvider{err: errors.New("backend down")}
	c := NewConversation(p, "test-model")

	_, err := c.Send(context.Background(), "hello")
	require.Error(t, err)

	// The user turn stays; only the reply is missing.
	history := c.History()
	require.Len(t, history, 1)
	assert.Equal(t, core.RoleUser, history[0].Role)
}
