// Package queue defines message payloads exchanged over the message broker.
package queue

// PasswordResetRequestedEvent is published when a user asks for a password
// reset. It carries everything the mail worker needs to compose the
// message without querying the primary database.
type PasswordResetRequestedEvent struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	ResetURL    string `json:"reset_url"`
	ExpiresAt   string `json:"expires_at"`
	RequestedAt string `json:"requested_at"`
}
