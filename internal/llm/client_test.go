package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Backtthefuture/weibocheck/internal/config"
	"github.com/Backtthefuture/weibocheck/internal/llm/llmtest"
)

func newFastClient(fake *llmtest.FakeModel, retries int) *Client {
	c := NewClient(fake, nil, config.LLMConfig{MaxRetries: &retries, Timeout: 5})
	c.baseDelay = time.Millisecond
	return c
}

func TestComplete(t *testing.T) {
	fake := llmtest.New(func(system, user string) (string, error) {
		return "echo:" + user, nil
	})
	c := newFastClient(fake, 3)

	out, err := c.Complete(context.Background(), "sys", "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", out)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sys", calls[0].System)
}

func TestComplete_Temperature(t *testing.T) {
	fake := llmtest.New(func(system, user string) (string, error) { return "ok", nil })

	_, err := NewClient(fake, nil, config.LLMConfig{}).Complete(context.Background(), "", "x")
	require.NoError(t, err)

	zero := float32(0)
	_, err = NewClient(fake, nil, config.LLMConfig{Temperature: &zero}).Complete(context.Background(), "", "x")
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Nil(t, calls[0].Temperature)
	require.NotNil(t, calls[1].Temperature)
	assert.Equal(t, float32(0), *calls[1].Temperature)
}

func TestComplete_ZeroRetries(t *testing.T) {
	fake := llmtest.New(func(system, user string) (string, error) {
		return "", errors.New("429")
	})
	_, err := newFastClient(fake, 0).Complete(context.Background(), "", "x")
	assert.Error(t, err)
	assert.Len(t, fake.Calls(), 1)
}

func TestComplete_RetriesRateLimit(t *testing.T) {
	n := 0
	fake := llmtest.New(func(system, user string) (string, error) {
		n++
		if n < 3 {
			return "", errors.New("error, status code: 429, Too Many Requests")
		}
		return "ok", nil
	})
	c := newFastClient(fake, 3)

	out, err := c.Complete(context.Background(), "", "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Len(t, fake.Calls(), 3)
}

func TestComplete_RetryExhausted(t *testing.T) {
	fake := llmtest.New(func(system, user string) (string, error) {
		return "", errors.New("429")
	})
	c := newFastClient(fake, 2)

	_, err := c.Complete(context.Background(), "", "x")
	assert.Error(t, err)
	assert.Len(t, fake.Calls(), 3)
}

func TestComplete_NoRetryOnOtherErrors(t *testing.T) {
	fake := llmtest.New(func(system, user string) (string, error) {
		return "", errors.New("bad request")
	})
	c := newFastClient(fake, 3)

	_, err := c.Complete(context.Background(), "", "x")
	assert.ErrorContains(t, err, "bad request")
	assert.Len(t, fake.Calls(), 1)
}

func TestComplete_Empty(t *testing.T) {
	fake := llmtest.New(func(system, user string) (string, error) {
		return "  \n", nil
	})
	_, err := newFastClient(fake, 0).Complete(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(errors.New("HTTP 429")))
	assert.True(t, IsRateLimited(errors.New("Too Many Requests")))
	assert.True(t, IsRateLimited(errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED")))
	assert.False(t, IsRateLimited(errors.New("timeout")))
	assert.False(t, IsRateLimited(nil))
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFences(in))
	}
}

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(config.ConcurrencyConfig{RPM: 120, QPS: 2})
	assert.InDelta(t, 2.0, float64(l.Limit()), 1e-9)
	assert.Equal(t, 2, l.Burst())
}
