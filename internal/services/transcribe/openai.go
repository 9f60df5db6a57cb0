package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings required to talk to the speech-to-text API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// OpenAI calls an OpenAI-compatible audio transcription endpoint.
type OpenAI struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*OpenAI)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenAI) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewOpenAI constructs a transcription client using the supplied configuration.
func NewOpenAI(cfg Config, opts ...Option) *OpenAI {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &OpenAI{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimSpace(cfg.BaseURL),
			Model:   strings.TrimSpace(cfg.Model),
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.openai.com/v1/audio/transcriptions"
	}
	if client.cfg.Model == "" {
		client.cfg.Model = "whisper-1"
	}
	return client
}

// Name identifies the backend in logs.
func (c *OpenAI) Name() string { return "openai" }

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe uploads the audio payload and returns the recognized text.
func (c *OpenAI) Transcribe(ctx context.Context, audio []byte, mediaType string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("transcribe: audio payload required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("transcribe: api key required")
	}
	if mediaType == "" {
		mediaType = "audio/webm"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileNameFor(mediaType)))
	header.Set("Content-Type", mediaType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("transcribe: create form part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("transcribe: write audio: %w", err)
	}
	if err := writer.WriteField("model", c.cfg.Model); err != nil {
		return "", fmt.Errorf("transcribe: write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("transcribe: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, &body)
	if err != nil {
		return "", fmt.Errorf("transcribe: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("transcribe: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("transcribe: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded transcriptionResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("transcribe: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("transcribe: api error: %s", strings.TrimSpace(decoded.Error.Message))
	}
	return decoded.Text, nil
}

func fileNameFor(mediaType string) string {
	switch {
	case strings.Contains(mediaType, "wav"):
		return "audio.wav"
	case strings.Contains(mediaType, "ogg"):
		return "audio.ogg"
	case strings.Contains(mediaType, "mp4"), strings.Contains(mediaType, "m4a"):
		return "audio.m4a"
	case strings.Contains(mediaType, "mpeg"), strings.Contains(mediaType, "mp3"):
		return "audio.mp3"
	default:
		return "audio.webm"
	}
}
