// Package service provides collaborator interfaces for subscription billing.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// ChargeInput describes a charge request sent to the payment processor.
type ChargeInput struct {
	UserID      uuid.UUID
	PackageID   uuid.UUID
	AmountCents int64
	Description string
}

// ChargeOutput is the processor's confirmation of a successful charge.
type ChargeOutput struct {
	TransactionID string
}

// PaymentProcessor charges users for subscription periods. Production
// deployments plug in a billing provider, development uses an implementation
// that approves every charge.
type PaymentProcessor interface {
	Charge(ctx context.Context, input *ChargeInput) (*ChargeOutput, error)
}

// devPaymentProcessor approves every charge and logs it.
// Intended for development and test environments only.
type devPaymentProcessor struct {
	logger *slog.Logger
}

// Charge logs the charge and approves it with a generated transaction ID.
func (d *devPaymentProcessor) Charge(ctx context.Context, input *ChargeInput) (*ChargeOutput, error) {
	transactionID := uuid.Must(uuid.NewV7()).String()

	d.logger.InfoContext(ctx, "charge approved",
		slog.String("user_id", input.UserID.String()),
		slog.String("package_id", input.PackageID.String()),
		slog.Int64("amount_cents", input.AmountCents),
		slog.String("transaction_id", transactionID),
	)

	return &ChargeOutput{TransactionID: transactionID}, nil
}

// NewDevPaymentProcessor creates a PaymentProcessor that approves every charge.
func NewDevPaymentProcessor(logger *slog.Logger) PaymentProcessor {
	return &devPaymentProcessor{logger: logger}
}
