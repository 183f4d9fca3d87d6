package usecases

import (
	"context"
	"time"
)

// Mailer delivers auth emails.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, ttl time.Duration) error
	SendPasswordReset(ctx context.Context, to, name, link string, ttl time.Duration) error
}

// TextGenerator produces a completion for a single prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int32) (string, error)
}
