package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gateway/internal/metrics"
	userDomain "github.com/allisson/gateway/internal/user/domain"
)

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", operation, status)
	u.metrics.RecordDuration(ctx, "user", operation, time.Since(start), status)
}

// Register records metrics for account registration operations.
func (u *userUseCaseWithMetrics) Register(
	ctx context.Context,
	input *userDomain.RegisterInput,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Register(ctx, input)
	u.record(ctx, "register", start, err)
	return user, err
}

// RequestCode records metrics for verification code issuance.
func (u *userUseCaseWithMetrics) RequestCode(ctx context.Context, phone string) error {
	start := time.Now()
	err := u.next.RequestCode(ctx, phone)
	u.record(ctx, "request_code", start, err)
	return err
}

// Login records metrics for login operations.
func (u *userUseCaseWithMetrics) Login(
	ctx context.Context,
	phone, code string,
) (*userDomain.LoginOutput, error) {
	start := time.Now()
	output, err := u.next.Login(ctx, phone, code)
	u.record(ctx, "login", start, err)
	return output, err
}

// Logout records metrics for logout operations.
func (u *userUseCaseWithMetrics) Logout(ctx context.Context, tokenHash string) error {
	start := time.Now()
	err := u.next.Logout(ctx, tokenHash)
	u.record(ctx, "logout", start, err)
	return err
}

// Me records metrics for account retrieval operations.
func (u *userUseCaseWithMetrics) Me(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Me(ctx, userID)
	u.record(ctx, "me", start, err)
	return user, err
}

// Authenticate records metrics for session authentication operations.
func (u *userUseCaseWithMetrics) Authenticate(ctx context.Context, tokenHash string) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Authenticate(ctx, tokenHash)
	u.record(ctx, "authenticate", start, err)
	return user, err
}
