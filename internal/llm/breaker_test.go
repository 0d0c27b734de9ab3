package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	mock := &MockClient{Err: &ProviderError{Provider: "mock", Err: errors.New("boom")}}
	b := NewBreaker(mock, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := b.Complete(ctx, "p")
		require.Error(t, err)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Complete(ctx, "p")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	var perr *ProviderError
	assert.True(t, errors.As(err, &perr))
	assert.Len(t, mock.Calls, 2, "open circuit must not reach the provider")
}

func TestBreakerPassesThrough(t *testing.T) {
	mock := &MockClient{Response: &Response{Content: "ok", Provider: "mock"}}
	b := NewBreaker(mock, 1, time.Minute)

	resp, err := b.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, "closed", b.State())
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	mock := &MockClient{Err: context.Canceled}
	b := NewBreaker(mock, 1, time.Minute)

	_, err := b.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "closed", b.State())
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	mock := &MockClient{Err: errors.New("boom")}
	b := NewBreaker(mock, 1, 10*time.Millisecond)

	_, err := b.Complete(context.Background(), "p")
	require.Error(t, err)
	require.Equal(t, "open", b.State())

	time.Sleep(20 * time.Millisecond)
	mock.Err = nil
	mock.Response = &Response{Content: "back"}

	resp, err := b.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "back", resp.Content)
	assert.Equal(t, "closed", b.State())
}
