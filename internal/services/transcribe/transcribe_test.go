package transcribe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"memoir/internal/config"
	"memoir/internal/services/transcribe"
)

func TestOpenAITranscribeSendsMultipart(t *testing.T) {
	var gotModel string
	var gotFile []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header %q", auth)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		buf := make([]byte, 16)
		n, _ := file.Read(buf)
		gotFile = buf[:n]
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "Hello from the past."})
	}))
	defer server.Close()

	client := transcribe.NewOpenAI(transcribe.Config{APIKey: "sk-test", BaseURL: server.URL, Model: "whisper-1"})
	text, err := client.Transcribe(context.Background(), []byte("opus-bytes"), "audio/webm")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "Hello from the past." {
		t.Fatalf("unexpected transcript %q", text)
	}
	if gotModel != "whisper-1" {
		t.Fatalf("expected model field, got %q", gotModel)
	}
	if string(gotFile) != "opus-bytes" {
		t.Fatalf("expected audio payload, got %q", gotFile)
	}
}

func TestOpenAITranscribeSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := transcribe.NewOpenAI(transcribe.Config{APIKey: "sk-test", BaseURL: server.URL})
	_, err := client.Transcribe(context.Background(), []byte("audio"), "audio/webm")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected http 429 error, got %v", err)
	}
}

func TestOpenAITranscribeRequiresAudioAndKey(t *testing.T) {
	client := transcribe.NewOpenAI(transcribe.Config{APIKey: "sk-test"})
	if _, err := client.Transcribe(context.Background(), nil, "audio/webm"); err == nil {
		t.Fatal("expected error for empty audio")
	}
	client = transcribe.NewOpenAI(transcribe.Config{})
	if _, err := client.Transcribe(context.Background(), []byte("audio"), "audio/webm"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestSimulatedIsDeterministic(t *testing.T) {
	sim := transcribe.NewSimulated()
	first, err := sim.Transcribe(context.Background(), []byte("payload-1"), "audio/webm")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	second, err := sim.Transcribe(context.Background(), []byte("payload-1"), "audio/webm")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected deterministic transcript, got %q then %q", first, second)
	}
	if first == "" {
		t.Fatal("expected non-empty transcript")
	}
}

func TestSimulatedHandlesAllHashBuckets(t *testing.T) {
	sim := transcribe.NewSimulated()
	// Varied payloads walk the whole snippet table; every index must be safe.
	for i := 0; i < 64; i++ {
		payload := []byte{byte(i), byte(i * 7), byte(i * 31)}
		text, err := sim.Transcribe(context.Background(), payload, "audio/webm")
		if err != nil {
			t.Fatalf("Transcribe failed for payload %d: %v", i, err)
		}
		if text == "" {
			t.Fatalf("empty transcript for payload %d", i)
		}
	}
}

func TestNewFromConfigSelectsProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Provider = "simulated"
	svc, err := transcribe.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if svc.Name() != "simulated" {
		t.Fatalf("expected simulated backend, got %q", svc.Name())
	}

	cfg.Transcription.Provider = "openai"
	cfg.Transcription.APIKey = "sk-test"
	svc, err = transcribe.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if svc.Name() != "openai" {
		t.Fatalf("expected openai backend, got %q", svc.Name())
	}

	cfg.Transcription.Provider = "carrier-pigeon"
	if _, err := transcribe.NewFromConfig(&cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
