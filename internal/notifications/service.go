package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"memoir/internal/config"
)

const userAgent = "Memoir/0.1.0"

// Mailer delivers generated stories to their owners.
type Mailer interface {
	// SendStory delivers an HTML story body to the recipient address.
	SendStory(ctx context.Context, recipient, subject, htmlBody string) error
	// TestDelivery sends a short probe message so operators can verify wiring.
	TestDelivery(ctx context.Context, recipient string) error
	// Enabled reports whether deliveries actually leave the process.
	Enabled() bool
}

// NewMailer builds a mailer backed by the configured email API. When no API
// key is configured, a noop implementation is returned and deliveries succeed
// without leaving the process.
func NewMailer(cfg *config.Config) Mailer {
	apiKey := strings.TrimSpace(cfg.Email.APIKey)
	if apiKey == "" {
		return noopMailer{}
	}

	timeout := time.Duration(cfg.Email.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &resendMailer{
		endpoint: strings.TrimRight(cfg.Email.BaseURL, "/") + "/emails",
		apiKey:   apiKey,
		from:     cfg.Email.From,
		client:   &http.Client{Timeout: timeout},
	}
}

type resendMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *resendMailer) Enabled() bool { return true }

func (m *resendMailer) SendStory(ctx context.Context, recipient, subject, htmlBody string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("send story: recipient required")
	}
	return m.send(ctx, emailRequest{
		From:    m.from,
		To:      []string{recipient},
		Subject: subject,
		HTML:    htmlBody,
	})
}

func (m *resendMailer) TestDelivery(ctx context.Context, recipient string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("test delivery: recipient required")
	}
	return m.send(ctx, emailRequest{
		From:    m.from,
		To:      []string{recipient},
		Subject: "Memoir delivery test",
		HTML:    "<p>Your Memoir email delivery is working.</p>",
	})
}

func (m *resendMailer) send(ctx context.Context, email emailRequest) error {
	encoded, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("email api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopMailer struct{}

func (noopMailer) Enabled() bool                                         { return false }
func (noopMailer) SendStory(context.Context, string, string, string) error { return nil }
func (noopMailer) TestDelivery(context.Context, string) error            { return nil }
