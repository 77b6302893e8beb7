package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	pkglogger "github.com/zuqon/content-backend/pkg/logger"
)

// PublishPayload is the publish request forwarded to the automation
// platform. Field names are fixed by the receiving scenario.
type PublishPayload struct {
	ContentID        uint64   `json:"contentId"`
	Name             string   `json:"name"`
	OriginalURL      string   `json:"originalUrl"`
	FacebookPost     string   `json:"facebookPost"`
	InstagramPost    string   `json:"instagramPost"`
	TwitterPost      string   `json:"twitterPost"`
	GraphicURL       string   `json:"graphicUrl"`
	PublishPlatforms []string `json:"publishPlatforms"`
	ScheduledTime    string   `json:"scheduledTime,omitempty"`
	Timestamp        string   `json:"timestamp"`
}

// TransportError marks failures to hand the request to the automation
// platform: connection errors, timeouts, non-2xx responses. Callers fall
// back to recording the intent locally when they see one.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("automation webhook: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client posts publish requests to the configured automation webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a webhook URL is set.
func (c *Client) Configured() bool {
	return c.webhookURL != ""
}

// TriggerPublish sends the payload. Any delivery failure is returned as a
// *TransportError; the caller decides on the fallback.
func (c *Client) TriggerPublish(ctx context.Context, payload PublishPayload) error {
	if c.webhookURL == "" {
		return &TransportError{Err: fmt.Errorf("webhook URL not configured")}
	}

	payload.Timestamp = time.Now().UTC().Format(time.RFC3339)
	sanitizePayload(&payload)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dispatch-ID", uuid.New().String())

	log := pkglogger.WithContentID(payload.ContentID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("automation webhook unreachable")
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Msg("automation webhook rejected request")
		return &TransportError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	log.Info().Strs("platforms", payload.PublishPlatforms).Msg("publish request dispatched")
	return nil
}

// sanitizePayload strips control characters the automation platform's JSON
// parser chokes on. Newlines and tabs in post bodies are kept.
func sanitizePayload(p *PublishPayload) {
	p.Name = sanitize(p.Name)
	p.OriginalURL = sanitize(p.OriginalURL)
	p.FacebookPost = sanitize(p.FacebookPost)
	p.InstagramPost = sanitize(p.InstagramPost)
	p.TwitterPost = sanitize(p.TwitterPost)
	p.GraphicURL = sanitize(p.GraphicURL)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
