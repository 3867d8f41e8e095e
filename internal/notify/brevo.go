package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBrevoBaseURL = "https://api.brevo.com"

// BrevoMailer sends transactional email through the Brevo REST API.
type BrevoMailer struct {
	baseURL     string
	apiKey      string
	senderEmail string
	senderName  string
	httpClient  *http.Client
}

// NewBrevoMailer creates a Brevo mailer. A nil httpClient gets a client
// with a bounded timeout.
func NewBrevoMailer(apiKey, senderEmail, senderName string, httpClient *http.Client) *BrevoMailer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &BrevoMailer{
		baseURL:     defaultBrevoBaseURL,
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		httpClient:  httpClient,
	}
}

// WithBaseURL overrides the API base URL, primarily for tests.
func (m *BrevoMailer) WithBaseURL(baseURL string) *BrevoMailer {
	m.baseURL = strings.TrimRight(baseURL, "/")
	return m
}

// Send submits a transactional email via POST /v3/smtp/email.
func (m *BrevoMailer) Send(ctx context.Context, to []Recipient, subject, htmlBody string) error {
	body := struct {
		Sender      Recipient   `json:"sender"`
		To          []Recipient `json:"to"`
		Subject     string      `json:"subject"`
		HTMLContent string      `json:"htmlContent"`
	}{
		Sender:      Recipient{Email: m.senderEmail, Name: m.senderName},
		To:          to,
		Subject:     subject,
		HTMLContent: htmlBody,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v3/smtp/email", strings.NewReader(string(jsonBody)))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sending email: unexpected status %d", resp.StatusCode)
	}
	return nil
}
