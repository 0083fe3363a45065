// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditQueueName is the durable queue carrying PassEvent messages.
const AuditQueueName = "sponsor_pass.audit"

// Event types.
const (
	PassCreated = "pass.created"
	PassRevoked = "pass.revoked"
)

// PassEvent is published after the partnerships service accepted a create
// or revoke issued from the panel.  It carries enough to write an audit
// line without calling the service again.
type PassEvent struct {
	EventID    string  `json:"event_id"`
	Type       string  `json:"type"`
	PassID     int64   `json:"pass_id"`
	SponsorID  int64   `json:"sponsor_id"`
	HolderName string  `json:"holder_name"`
	Email      string  `json:"email,omitempty"`
	ExpiresAt  *string `json:"expires_at,omitempty"`
	ManagerID  string  `json:"manager_id"`
	OccurredAt string  `json:"occurred_at"`
}
