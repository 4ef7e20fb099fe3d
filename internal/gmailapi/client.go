// Package gmailapi looks up conversation threads through the Gmail REST
// API, so the dashboard can show whether a cold email got a reply.
package gmailapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/httpretry"
)

const defaultBaseURL = "https://gmail.googleapis.com"

// ThreadMessage is one message in a Gmail thread, reduced to the fields
// the dashboard displays.
type ThreadMessage struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// Thread is a Gmail conversation.
type Thread struct {
	ID       string          `json:"id"`
	Messages []ThreadMessage `json:"messages"`
}

// Client calls the Gmail REST API with OAuth credentials.
type Client struct {
	baseURL string
	http    httpretry.HTTPDoer
}

// NewClient creates a Gmail API client. The oauth2 token source handles
// refresh; transient failures are retried.
func NewClient(cfg config.GmailAPIConfig) *Client {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
	token := &oauth2.Token{
		AccessToken:  cfg.AccessToken,
		RefreshToken: cfg.RefreshToken,
		// Force a refresh on first use; the stored access token is
		// usually stale by the time the server starts.
		Expiry: time.Now().Add(-time.Minute),
	}

	base := oauthCfg.Client(context.Background(), token)
	base.Timeout = cfg.Timeout()

	return &Client{
		baseURL: defaultBaseURL,
		http:    httpretry.NewRetryClient(base, 3),
	}
}

// newClientForTest builds a client against a test server with a plain
// HTTP client.
func newClientForTest(baseURL string, doer httpretry.HTTPDoer) *Client {
	return &Client{baseURL: baseURL, http: doer}
}

// Configured reports whether OAuth credentials are present.
func Configured(cfg config.GmailAPIConfig) bool {
	return cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RefreshToken != ""
}

// GetThread fetches one conversation with its messages' headers and
// snippets.
func (c *Client) GetThread(ctx context.Context, threadID string) (*Thread, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return nil, domain.Validationf("thread id is required")
	}

	url := fmt.Sprintf("%s/gmail/v1/users/me/threads/%s?format=metadata&metadataHeaders=Subject&metadataHeaders=From&metadataHeaders=Date", c.baseURL, threadID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gmail thread request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NotFoundf("thread %s not found", threadID)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.Unauthorizedf("gmail api rejected credentials (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gmail api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw struct {
		ID       string `json:"id"`
		Messages []struct {
			ID      string `json:"id"`
			Snippet string `json:"snippet"`
			Payload struct {
				Headers []struct {
					Name  string `json:"name"`
					Value string `json:"value"`
				} `json:"headers"`
			} `json:"payload"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding gmail thread: %w", err)
	}

	thread := &Thread{ID: raw.ID, Messages: make([]ThreadMessage, 0, len(raw.Messages))}
	for _, m := range raw.Messages {
		msg := ThreadMessage{ID: m.ID, Snippet: m.Snippet}
		for _, h := range m.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "subject":
				msg.Subject = h.Value
			case "from":
				msg.From = h.Value
			case "date":
				msg.Date = h.Value
			}
		}
		thread.Messages = append(thread.Messages, msg)
	}
	return thread, nil
}
