package service

import (
	"context"
	"log/slog"
)

// logVerificationSender logs verification codes instead of delivering them.
// Intended for development and test environments only.
type logVerificationSender struct {
	logger *slog.Logger
}

// SendCode logs the verification code at info level.
func (l *logVerificationSender) SendCode(ctx context.Context, phone, code string) error {
	l.logger.InfoContext(ctx, "verification code issued",
		slog.String("phone", phone),
		slog.String("code", code),
	)
	return nil
}

// NewLogVerificationSender creates a VerificationSender that logs codes.
func NewLogVerificationSender(logger *slog.Logger) VerificationSender {
	return &logVerificationSender{logger: logger}
}
