package audit

import "time"

// Action names a recorded account lifecycle step.
type Action string

const (
	ActionAccountRegistered    Action = "account_registered"
	ActionActivationMailSent   Action = "activation_mail_sent"
	ActionActivationMailFailed Action = "activation_mail_failed"
)

// Event is emitted from the registration flow to capture key actions. It
// carries no credentials and no activation token.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	AccountID string    `json:"account_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Device    string    `json:"device,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}
