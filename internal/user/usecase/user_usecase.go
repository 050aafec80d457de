// Package usecase implements business logic orchestration for account operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gateway/internal/database"
	userDomain "github.com/allisson/gateway/internal/user/domain"
	userService "github.com/allisson/gateway/internal/user/service"
)

// userUseCase implements UserUseCase for phone-code authentication.
type userUseCase struct {
	txManager    database.TxManager
	userRepo     UserRepository
	sessionRepo  SessionRepository
	codeRepo     VerificationCodeRepository
	tokenService userService.TokenService
	codeService  userService.CodeService
	sender       userService.VerificationSender
	sessionTTL   time.Duration
	codeTTL      time.Duration
}

// Register creates a new account keyed by phone number.
func (u *userUseCase) Register(
	ctx context.Context,
	input *userDomain.RegisterInput,
) (*userDomain.User, error) {
	_, err := u.userRepo.GetByPhone(ctx, input.Phone)
	if err == nil {
		return nil, userDomain.ErrUserAlreadyExists
	}
	if !errors.Is(err, userDomain.ErrUserNotFound) {
		return nil, err
	}

	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// RequestCode issues a one-time verification code for the phone number.
// Codes are issued regardless of whether the phone is registered so the
// endpoint cannot be used to probe for accounts.
func (u *userUseCase) RequestCode(ctx context.Context, phone string) error {
	plainCode, codeHash, err := u.codeService.GenerateCode()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	code := &userDomain.VerificationCode{
		ID:        uuid.Must(uuid.NewV7()),
		Phone:     phone,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(u.codeTTL),
		CreatedAt: now,
	}

	if err := u.codeRepo.Create(ctx, code); err != nil {
		return err
	}

	return u.sender.SendCode(ctx, phone, plainCode)
}

// Login redeems a verification code and opens a session.
// The code is consumed and the session created in one transaction so a code
// can never yield more than one session.
func (u *userUseCase) Login(ctx context.Context, phone, code string) (*userDomain.LoginOutput, error) {
	codeHash := u.codeService.HashCode(code)

	verificationCode, err := u.codeRepo.GetByPhoneAndHash(ctx, phone, codeHash)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !verificationCode.IsUsable(now) {
		return nil, userDomain.ErrInvalidVerificationCode
	}

	user, err := u.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	plainToken, tokenHash, err := u.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	session := &userDomain.Session{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(u.sessionTTL),
		CreatedAt: now,
	}

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := u.codeRepo.Consume(ctx, verificationCode.ID, now); err != nil {
			return err
		}
		return u.sessionRepo.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	return &userDomain.LoginOutput{
		User:       user,
		PlainToken: plainToken,
		ExpiresAt:  session.ExpiresAt,
	}, nil
}

// Logout removes the session for the given token hash.
func (u *userUseCase) Logout(ctx context.Context, tokenHash string) error {
	return u.sessionRepo.DeleteByTokenHash(ctx, tokenHash)
}

// Me retrieves the account by ID.
func (u *userUseCase) Me(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	return u.userRepo.Get(ctx, userID)
}

// Authenticate resolves a session token hash to its account.
func (u *userUseCase) Authenticate(ctx context.Context, tokenHash string) (*userDomain.User, error) {
	session, err := u.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	if session.IsExpired(time.Now().UTC()) {
		return nil, userDomain.ErrInvalidSession
	}

	return u.userRepo.Get(ctx, session.UserID)
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	codeRepo VerificationCodeRepository,
	tokenService userService.TokenService,
	codeService userService.CodeService,
	sender userService.VerificationSender,
	sessionTTL time.Duration,
	codeTTL time.Duration,
) UserUseCase {
	return &userUseCase{
		txManager:    txManager,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		codeRepo:     codeRepo,
		tokenService: tokenService,
		codeService:  codeService,
		sender:       sender,
		sessionTTL:   sessionTTL,
		codeTTL:      codeTTL,
	}
}
