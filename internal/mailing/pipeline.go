package mailing

import (
	"context"
	"strings"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/logger"
)

// SendRequest is one batch send: a comma-separated recipient list with
// a shared subject and body.
type SendRequest struct {
	Recipients string `json:"recipients"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	ThreadID   string `json:"thread_id,omitempty"`
	FollowUp   bool   `json:"follow_up,omitempty"`
}

// SendItem is the per-recipient outcome of a batch send.
type SendItem struct {
	Recipient    string `json:"recipient"`
	EmailSent    bool   `json:"emailSent"`
	EmailSaved   bool   `json:"emailSaved"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// SendResult is the outcome of a whole batch. Status is always
// "completed" once the batch has been walked; failures surface per item.
type SendResult struct {
	Status  string     `json:"status"`
	Results []SendItem `json:"results"`
}

// Pipeline walks a batch send: validate once, then send and persist per
// recipient in order. One recipient's failure never stops the rest.
type Pipeline struct {
	store     *Store
	transport Transport
	// requireCreds is set for the Gmail transport, which signs in with
	// the operator's own credentials.
	requireCreds bool
}

// NewPipeline creates a send pipeline over the given transport.
func NewPipeline(store *Store, transport Transport, requireCreds bool) *Pipeline {
	return &Pipeline{store: store, transport: transport, requireCreds: requireCreds}
}

// Send validates the batch, then processes recipients sequentially.
func (p *Pipeline) Send(ctx context.Context, user *domain.User, req SendRequest) (*SendResult, error) {
	recipients := splitRecipients(req.Recipients)
	if len(recipients) == 0 {
		return nil, domain.Validationf("at least one recipient is required")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, domain.Validationf("subject is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, domain.Validationf("content is required")
	}
	if p.requireCreds && !user.HasMailCredentials() {
		return nil, domain.Validationf("gmail address and app password are not configured; update your profile first")
	}

	result := &SendResult{Status: "completed", Results: make([]SendItem, 0, len(recipients))}

	for _, recipient := range recipients {
		item := SendItem{Recipient: recipient}

		sendErr := p.transport.Send(ctx, Message{
			FromAddress:  user.GmailAddress,
			FromPassword: user.GmailAppPassword,
			To:           recipient,
			Subject:      req.Subject,
			Body:         req.Content,
		})
		item.EmailSent = sendErr == nil
		if sendErr != nil {
			item.ErrorMessage = sendErr.Error()
			logger.Warn("send failed", "recipient", recipient, "error", sendErr)
		}

		saveErr := p.store.RecordSent(ctx, &domain.SentEmail{
			UserID:    user.ID,
			Recipient: recipient,
			Subject:   req.Subject,
			Content:   req.Content,
			ThreadID:  req.ThreadID,
			FollowUp:  req.FollowUp,
			Delivered: sendErr == nil,
		})
		item.EmailSaved = saveErr == nil
		if saveErr != nil {
			logger.Error("history save failed", "recipient", recipient, "error", saveErr)
			if item.ErrorMessage == "" {
				item.ErrorMessage = saveErr.Error()
			}
		}

		result.Results = append(result.Results, item)
	}

	return result, nil
}

// splitRecipients splits the comma-separated list, trimming whitespace
// and dropping empty entries. Duplicates are kept as entered.
func splitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
