package domain

import (
	"time"

	"github.com/google/uuid"
)

// CompanyFormat records how a company constructs employee email addresses.
// CompanyName is unique under case-insensitive comparison; Domain is stored
// as entered and normalized at generation time; EmailFormat is a template
// over the placeholder vocabulary {firstname}, {lastname}, {f}, {l} plus a
// literal @{domain} suffix, e.g. "{f}.{lastname}@{domain}".
type CompanyFormat struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Domain      string    `json:"domain"`
	EmailFormat string    `json:"email_format"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Person is a name pair the candidate generator expands into address
// guesses. Never persisted.
type Person struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SentEmail is one send attempt to one recipient. A row exists for every
// attempted address; Delivered records the transport outcome.
type SentEmail struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
	ThreadID  string    `json:"thread_id,omitempty"`
	FollowUp  bool      `json:"follow_up"`
	Delivered bool      `json:"delivered"`
}

// Template visibility values.
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// EmailTemplate is a reusable subject/body pair owned by an operator.
// Public templates are readable by every operator.
type EmailTemplate struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	Content    string    `json:"content"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
