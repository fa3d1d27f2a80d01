package email

import "errors"

var (
	// ErrInvalidConfig means the sender was constructed with missing or
	// malformed configuration.
	ErrInvalidConfig = errors.New("invalid email configuration")
	// ErrInvalidRecipient rejects messages without a valid recipient address.
	ErrInvalidRecipient = errors.New("invalid recipient email address")
	// ErrMissingSubject rejects messages without a subject.
	ErrMissingSubject = errors.New("email subject is required")
	// ErrMissingBody rejects messages without a body.
	ErrMissingBody = errors.New("email body is required")
	// ErrSendFailed wraps provider delivery failures.
	ErrSendFailed = errors.New("failed to send email")
)
