// Package compose drafts cold-email bodies with a hosted text-generation
// model. It is optional: without an API token the endpoints report the
// feature as disabled rather than failing sends.
package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/httpretry"
)

// DraftRequest describes the email the operator wants drafted: the job
// they are reaching out about and a summary of their background.
type DraftRequest struct {
	JobTitle      string `json:"jobTitle"`
	ResumeSummary string `json:"resumeSummary"`
}

// Draft is a generated email body.
type Draft struct {
	Content string `json:"content"`
}

// Client calls a Hugging Face style text-generation endpoint.
type Client struct {
	baseURL string
	model   string
	token   string
	http    httpretry.HTTPDoer
}

// NewClient creates an inference client with retry on transient errors.
func NewClient(cfg config.InferenceConfig) *Client {
	base := &http.Client{Timeout: cfg.Timeout()}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		token:   cfg.APIToken,
		http:    httpretry.NewRetryClient(base, 3),
	}
}

func newClientForTest(baseURL, model string, doer httpretry.HTTPDoer) *Client {
	return &Client{baseURL: baseURL, model: model, token: "test-token", http: doer}
}

// GenerateDraft asks the model for a cold email tailored to the job
// title and resume summary. Both fields are required.
func (c *Client) GenerateDraft(ctx context.Context, req DraftRequest) (*Draft, error) {
	if strings.TrimSpace(req.JobTitle) == "" || strings.TrimSpace(req.ResumeSummary) == "" {
		return nil, domain.Validationf("job title and resume summary are required")
	}

	payload := map[string]any{
		"inputs": buildPrompt(req),
		"parameters": map[string]any{
			"max_length": 500,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("inference status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding inference response: %w", err)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].GeneratedText) == "" {
		return nil, fmt.Errorf("inference returned no text")
	}

	return &Draft{Content: strings.TrimSpace(out[0].GeneratedText)}, nil
}

func buildPrompt(req DraftRequest) string {
	var b strings.Builder
	b.WriteString("Write a professional and personalized cold email to a company representative ")
	b.WriteString("to inquire about a job opportunity or to request a referral for a suitable position. ")
	b.WriteString("The email should be polite, engaging, and professional.\n\n")
	fmt.Fprintf(&b, "Job Title: %s\n", req.JobTitle)
	fmt.Fprintf(&b, "Resume Summary: %s\n", req.ResumeSummary)
	return b.String()
}
