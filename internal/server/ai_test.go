package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lazypower/rememberme/internal/llm"
	"github.com/lazypower/rememberme/internal/store"
)

func seedMemory(t *testing.T, env *testEnv, m store.Memory) {
	t.Helper()
	if _, err := env.db.Memories().Create(context.Background(), &m); err != nil {
		t.Fatalf("seed memory: %v", err)
	}
}

func TestGenerateStory(t *testing.T) {
	env := newTestEnv(t)

	w := do(t, env.srv, "POST", "/generateStory", `{"prompt":"a day at the lake","memories":["Fishing with Bob"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if story := decode[map[string]string](t, w)["story"]; story != "A lovely story." {
		t.Errorf("story = %q", story)
	}
	if len(env.mock.Calls) != 1 || !strings.Contains(env.mock.Calls[0], "a day at the lake") {
		t.Errorf("calls = %v", env.mock.Calls)
	}
}

func TestGenerateStoryEmptyResponse(t *testing.T) {
	env := newTestEnv(t)
	env.mock.Response = &llm.Response{Content: ""}

	w := do(t, env.srv, "POST", "/generateStory", `{"prompt":"anything"}`)
	if story := decode[map[string]string](t, w)["story"]; story != "No story received." {
		t.Errorf("story = %q", story)
	}
}

func TestGenerateStoryMissingPrompt(t *testing.T) {
	env := newTestEnv(t)

	w := do(t, env.srv, "POST", "/generateStory", `{"memories":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if decode[map[string]string](t, w)["error"] == "" {
		t.Error("expected error in body")
	}
}

func TestGenerateStoryProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mock.Err = &llm.ProviderError{Provider: "mock", Err: errors.New("quota")}

	w := do(t, env.srv, "POST", "/generateStory", `{"prompt":"anything"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if msg := decode[map[string]string](t, w)["error"]; msg != "Failed to generate story." {
		t.Errorf("error = %q", msg)
	}
}

func TestPersonInfo(t *testing.T) {
	env := newTestEnv(t)
	seedMemory(t, env, store.Memory{PersonName: "Alice", Relationship: "Mother", MemoryText: "Baked bread every Sunday"})

	w := do(t, env.srv, "POST", "/getPersonInfo", `{"personName":"Alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if story := decode[map[string]string](t, w)["story"]; story != "A lovely story." {
		t.Errorf("story = %q", story)
	}
	if !strings.Contains(env.mock.Calls[0], "Baked bread every Sunday") {
		t.Errorf("prompt missing memory text: %q", env.mock.Calls[0])
	}
}

func TestPersonInfoUnknownPerson(t *testing.T) {
	env := newTestEnv(t)

	w := do(t, env.srv, "POST", "/getPersonInfo", `{"personName":"Nobody"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if decode[map[string]string](t, w)["error"] == "" {
		t.Error("expected error in body")
	}
	if len(env.mock.Calls) != 0 {
		t.Error("provider should not be called without memories")
	}
}

func TestHighlight(t *testing.T) {
	env := newTestEnv(t)
	seedMemory(t, env, store.Memory{PersonName: "Alice", Relationship: "Mother", MemoryText: "Baked bread every Sunday"})
	env.mock.Response = &llm.Response{Content: "Your mother Alice baked bread."}

	w := do(t, env.srv, "GET", "/getRandomMemoryHighlight", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if h := decode[map[string]string](t, w)["highlight"]; h != "Your mother Alice baked bread." {
		t.Errorf("highlight = %q", h)
	}
}

func TestHighlightFallback(t *testing.T) {
	env := newTestEnv(t)
	seedMemory(t, env, store.Memory{PersonName: "Alice", Relationship: "Mother", MemoryText: "Baked bread every Sunday"})
	env.mock.Err = &llm.ProviderError{Provider: "mock", Err: errors.New("unreachable")}

	w := do(t, env.srv, "GET", "/getRandomMemoryHighlight", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	want := "Remember this memory with Alice, your Mother: Baked bread every Sunday"
	if h := decode[map[string]string](t, w)["highlight"]; h != want {
		t.Errorf("highlight = %q, want %q", h, want)
	}
}

func TestHighlightNoMemories(t *testing.T) {
	env := newTestEnv(t)

	w := do(t, env.srv, "GET", "/getRandomMemoryHighlight", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestAIRoutesWithoutEngine(t *testing.T) {
	env := newTestEnv(t)
	srv := New(env.db, nil, Options{Logger: zerolog.Nop()})

	for _, tc := range []struct{ method, path, body string }{
		{"POST", "/generateStory", `{"prompt":"x"}`},
		{"POST", "/getPersonInfo", `{"personName":"x"}`},
		{"GET", "/getRandomMemoryHighlight", ""},
	} {
		w := do(t, srv, tc.method, tc.path, tc.body)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.path, w.Code, http.StatusInternalServerError)
		}
	}
}
