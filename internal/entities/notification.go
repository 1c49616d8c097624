package entities

import (
	"time"

	"github.com/google/uuid"
)

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool { return c == ChannelSMS || c == ChannelEmail }

// Template keys used by built-in flows.
const (
	TemplateWelcome            = "welcome"
	TemplatePaymentReceived    = "payment_received"
	TemplateMembershipExpiring = "membership_expiring"
	TemplateClassBooked        = "class_booked"
)

// NotificationTemplate is an SMS or email body with {{placeholders}}.
// A nil BranchID marks a template shared by every branch.
type NotificationTemplate struct {
	ID        uuid.UUID  `json:"id"`
	BranchID  *uuid.UUID `json:"branch_id,omitempty"`
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	Channel   Channel    `json:"channel"`
	Subject   string     `json:"subject,omitempty"`
	Body      string     `json:"body"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NotificationStatus enumerates delivery states.
type NotificationStatus string

const (
	NotificationQueued NotificationStatus = "queued"
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification is a rendered message addressed to one recipient.
type Notification struct {
	ID         uuid.UUID          `json:"id"`
	BranchID   uuid.UUID          `json:"branch_id"`
	MemberID   *uuid.UUID         `json:"member_id,omitempty"`
	TemplateID *uuid.UUID         `json:"template_id,omitempty"`
	Channel    Channel            `json:"channel"`
	Recipient  string             `json:"recipient"`
	Subject    string             `json:"subject,omitempty"`
	Body       string             `json:"body"`
	Status     NotificationStatus `json:"status"`
	Error      string             `json:"error,omitempty"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// FeedbackStatus enumerates feedback states.
type FeedbackStatus string

const (
	FeedbackOpen     FeedbackStatus = "open"
	FeedbackResolved FeedbackStatus = "resolved"
)

// Feedback is a member comment with an optional rating.
type Feedback struct {
	ID         uuid.UUID      `json:"id"`
	BranchID   uuid.UUID      `json:"branch_id"`
	MemberID   *uuid.UUID     `json:"member_id,omitempty"`
	Category   string         `json:"category"`
	Rating     int            `json:"rating"`
	Comment    string         `json:"comment"`
	Status     FeedbackStatus `json:"status"`
	Response   string         `json:"response,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

// TemplatePreview is a rendered template with the placeholders no variable was given for.
type TemplatePreview struct {
	Subject string   `json:"subject,omitempty"`
	Body    string   `json:"body"`
	Missing []string `json:"missing"`
}

// SendRequest asks for a templated notification to one member.
type SendRequest struct {
	MemberID    uuid.UUID
	TemplateKey string
	Channel     Channel
	Vars        map[string]string
}
