package storygen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestComposeStoryReturnsContent(t *testing.T) {
	var gotSystem, gotUser string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected system + user messages, got %d", len(req.Messages))
		}
		gotSystem = req.Messages[0].Content
		gotUser = req.Messages[1].Content
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{"content": "Once upon a time."},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	story, err := client.ComposeStory(context.Background(), "I was born in 1990.\n\nI loved music.")
	if err != nil {
		t.Fatalf("ComposeStory returned error: %v", err)
	}
	if story != "Once upon a time." {
		t.Fatalf("unexpected story %q", story)
	}
	if gotSystem != StorytellerPrompt {
		t.Fatalf("expected storyteller prompt as system message, got %q", gotSystem)
	}
	if !strings.Contains(gotUser, "I loved music.") {
		t.Fatalf("expected transcript in user message, got %q", gotUser)
	}
}

func TestComposeStoryRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": "Recovered."}},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithRetryMaxAttempts(3),
		WithRetryBackoff(time.Millisecond, 10*time.Millisecond),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	story, err := client.ComposeStory(context.Background(), "snippet")
	if err != nil {
		t.Fatalf("ComposeStory returned error: %v", err)
	}
	if story != "Recovered." {
		t.Fatalf("unexpected story %q", story)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if len(slept) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(slept))
	}
}

func TestComposeStoryDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request"}}`))
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithRetryMaxAttempts(3),
		WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.ComposeStory(context.Background(), "snippet"); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestComposeStoryRequiresInput(t *testing.T) {
	client := NewClient(Config{APIKey: "test", Model: "demo"})
	if _, err := client.ComposeStory(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank transcript")
	}
	client = NewClient(Config{Model: "demo"})
	if _, err := client.ComposeStory(context.Background(), "snippet"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestRetryDelayHonorsRetryAfter(t *testing.T) {
	client := NewClient(Config{APIKey: "k", Model: "m"}, WithRetryBackoff(time.Second, 30*time.Second))
	err := &httpStatusError{StatusCode: http.StatusTooManyRequests, RetryAfter: 4 * time.Second}
	delay, retry := client.retryDelay(context.Background(), err, 1, 3)
	if !retry {
		t.Fatal("expected retry for 429")
	}
	if delay != 4*time.Second {
		t.Fatalf("expected Retry-After delay, got %v", delay)
	}
}

func TestBackoffDelayDoubles(t *testing.T) {
	client := NewClient(Config{APIKey: "k", Model: "m"}, WithRetryBackoff(time.Second, 10*time.Second))
	if got := client.backoffDelay(1); got != time.Second {
		t.Fatalf("attempt 1: expected 1s, got %v", got)
	}
	if got := client.backoffDelay(2); got != 2*time.Second {
		t.Fatalf("attempt 2: expected 2s, got %v", got)
	}
	if got := client.backoffDelay(5); got != 10*time.Second {
		t.Fatalf("attempt 5: expected cap at 10s, got %v", got)
	}
}
