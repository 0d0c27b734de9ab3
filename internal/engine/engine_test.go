package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/rememberme/internal/llm"
	"github.com/lazypower/rememberme/internal/metrics"
	"github.com/lazypower/rememberme/internal/store"
	"github.com/lazypower/rememberme/internal/store/sqlite"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *sqlite.DB, mems ...store.Memory) {
	t.Helper()
	for i := range mems {
		_, err := db.Memories().Create(context.Background(), &mems[i])
		require.NoError(t, err)
	}
}

func failing() *llm.MockClient {
	return &llm.MockClient{Err: &llm.ProviderError{Provider: "mock", Err: errors.New("quota exceeded")}}
}

func TestGenerateStory(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "  Once upon a time.  ", Provider: "mock"}}
	e := New(testDB(t), mock)

	story, err := e.GenerateStory(context.Background(), "a day at the lake", []string{"Fishing with Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time.", story)

	require.Len(t, mock.Calls, 1)
	assert.True(t, strings.HasPrefix(mock.Calls[0], "Write a short story based on the following prompt: a day at the lake"))
	assert.Contains(t, mock.Calls[0], "Fishing with Bob")
}

func TestGenerateStoryRequiresPrompt(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "x"}}
	e := New(testDB(t), mock)

	_, err := e.GenerateStory(context.Background(), "   ", nil)
	var verr *store.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Empty(t, mock.Calls, "no provider call for an invalid request")
}

func TestGenerateStoryEmptyResponse(t *testing.T) {
	e := New(testDB(t), &llm.MockClient{Response: &llm.Response{Content: ""}})

	story, err := e.GenerateStory(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Equal(t, NoStory, story)
}

func TestGenerateStoryProviderError(t *testing.T) {
	e := New(testDB(t), failing())

	_, err := e.GenerateStory(context.Background(), "anything", nil)
	var perr *llm.ProviderError
	assert.True(t, errors.As(err, &perr), "got %v", err)
}

func TestGenerateStoryWithoutClient(t *testing.T) {
	e := New(testDB(t), nil)

	_, err := e.GenerateStory(context.Background(), "anything", nil)
	var perr *llm.ProviderError
	assert.True(t, errors.As(err, &perr), "got %v", err)
}

func TestPersonStory(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		store.Memory{PersonName: "Alice", Relationship: "Mother", MemoryText: "Baked bread every Sunday"},
		store.Memory{PersonName: "Bob", Relationship: "Son", MemoryText: "Went fishing"},
		store.Memory{PersonName: "Alice", Relationship: "Mother", MemoryText: "Sang in the choir"},
	)
	mock := &llm.MockClient{Response: &llm.Response{Content: "Alice loved bread and song."}}
	e := New(db, mock)

	story, err := e.PersonStory(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice loved bread and song.", story)

	require.Len(t, mock.Calls, 1)
	prompt := mock.Calls[0]
	assert.Contains(t, prompt, "Baked bread every Sunday")
	assert.Contains(t, prompt, "Sang in the choir")
	assert.NotContains(t, prompt, "Went fishing")
}

func TestPersonStoryUnknownPerson(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "x"}}
	e := New(testDB(t), mock)

	_, err := e.PersonStory(context.Background(), "Nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, mock.Calls)
}

func TestPersonStoryRequiresName(t *testing.T) {
	e := New(testDB(t), &llm.MockClient{})

	_, err := e.PersonStory(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestPersonStoryProviderError(t *testing.T) {
	db := testDB(t)
	seed(t, db, store.Memory{PersonName: "Alice", Relationship: "Mother", MemoryText: "Bread"})
	e := New(db, failing())

	_, err := e.PersonStory(context.Background(), "Alice")
	var perr *llm.ProviderError
	assert.True(t, errors.As(err, &perr), "got %v", err)
}

func TestHighlight(t *testing.T) {
	db := testDB(t)
	seed(t, db, store.Memory{PersonName: "Alice", Relationship: "Mother", MemoryText: "Baked bread every Sunday"})
	mock := &llm.MockClient{Response: &llm.Response{Content: "Your mother Alice baked bread every Sunday."}}
	e := New(db, mock)

	text, err := e.Highlight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Your mother Alice baked bread every Sunday.", text)
	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0], "PERSON: Alice")
}

func TestHighlightFallback(t *testing.T) {
	db := testDB(t)
	seed(t, db, store.Memory{PersonName: "Alice", Relationship: "Mother", MemoryText: "Baked bread every Sunday"})
	c := metrics.New()
	e := New(db, failing())
	e.SetMetrics(c)

	text, err := e.Highlight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Remember this memory with Alice, your Mother: Baked bread every Sunday", text)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AIRequests.WithLabelValues(OpHighlight, metrics.OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AIRequests.WithLabelValues(OpHighlight, metrics.OutcomeError)))
}

func TestHighlightEmptyResponseFallsBack(t *testing.T) {
	db := testDB(t)
	seed(t, db, store.Memory{PersonName: "Bob", Relationship: "Son", MemoryText: "Fishing"})
	e := New(db, &llm.MockClient{Response: &llm.Response{Content: "   "}})

	text, err := e.Highlight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Remember this memory with Bob, your Son: Fishing", text)
}

func TestHighlightEmptyCollection(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "x"}}
	e := New(testDB(t), mock)

	_, err := e.Highlight(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, mock.Calls)
}

func TestCompleteCountsSuccess(t *testing.T) {
	c := metrics.New()
	e := New(testDB(t), &llm.MockClient{Response: &llm.Response{Content: "ok"}})
	e.SetMetrics(c)

	_, err := e.GenerateStory(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AIRequests.WithLabelValues(OpStory, metrics.OutcomeSuccess)))
}
