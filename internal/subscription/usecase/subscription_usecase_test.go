package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
	subscriptionService "github.com/allisson/gateway/internal/subscription/service"
)

// mockSubscriptionRepository is a mock implementation of SubscriptionRepository for testing.
type mockSubscriptionRepository struct {
	mock.Mock
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, subscription *subscriptionDomain.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, subscription *subscriptionDomain.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) Get(ctx context.Context, subscriptionID uuid.UUID) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) GetActiveByUserAndPackage(
	ctx context.Context,
	userID, packageID uuid.UUID,
	now time.Time,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, userID, packageID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) ListDueForRenewal(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) HasAccess(
	ctx context.Context,
	userID, apiID uuid.UUID,
	now time.Time,
) (bool, error) {
	args := m.Called(ctx, userID, apiID, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubscriptionRepository) AccessibleAPIIDs(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// mockPackageRepository is a mock implementation of PackageRepository for testing.
type mockPackageRepository struct {
	mock.Mock
}

func (m *mockPackageRepository) Get(ctx context.Context, packageID uuid.UUID) (*catalogDomain.Package, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.Package), args.Error(1)
}

// mockPaymentProcessor is a mock implementation of PaymentProcessor for testing.
type mockPaymentProcessor struct {
	mock.Mock
}

func (m *mockPaymentProcessor) Charge(
	ctx context.Context,
	input *subscriptionService.ChargeInput,
) (*subscriptionService.ChargeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionService.ChargeOutput), args.Error(1)
}

func setupSubscriptionUseCase(t *testing.T) (
	SubscriptionUseCase,
	*mockSubscriptionRepository,
	*mockPackageRepository,
	*mockPaymentProcessor,
) {
	t.Helper()

	subscriptionRepo := &mockSubscriptionRepository{}
	packageRepo := &mockPackageRepository{}
	payments := &mockPaymentProcessor{}

	return NewSubscriptionUseCase(subscriptionRepo, packageRepo, payments), subscriptionRepo, packageRepo, payments
}

func TestSubscriptionUseCase_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, subscriptionRepo, packageRepo, payments := setupSubscriptionUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		pkg := &catalogDomain.Package{
			ID:         uuid.Must(uuid.NewV7()),
			Name:       "starter",
			PriceCents: 1999,
			Cycle:      catalogDomain.BillingCycleMonthly,
		}

		packageRepo.On("Get", ctx, pkg.ID).Return(pkg, nil).Once()
		subscriptionRepo.On("GetActiveByUserAndPackage", ctx, userID, pkg.ID, mock.AnythingOfType("time.Time")).
			Return(nil, subscriptionDomain.ErrSubscriptionNotFound).Once()
		payments.On("Charge", ctx, mock.MatchedBy(func(input *subscriptionService.ChargeInput) bool {
			return input.AmountCents == 1999 && input.UserID == userID
		})).Return(&subscriptionService.ChargeOutput{TransactionID: "txn-1"}, nil).Once()
		subscriptionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil).Once()

		subscription, err := uc.Subscribe(ctx, &subscriptionDomain.SubscribeInput{
			UserID:    userID,
			PackageID: pkg.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, subscriptionDomain.StatusActive, subscription.Status)
		assert.Equal(t, pkg.ID, subscription.PackageID)
		assert.True(t, subscription.CurrentPeriodEnd.After(subscription.CurrentPeriodStart))
		subscriptionRepo.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("AlreadySubscribed", func(t *testing.T) {
		uc, subscriptionRepo, packageRepo, payments := setupSubscriptionUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		pkg := &catalogDomain.Package{ID: uuid.Must(uuid.NewV7()), Cycle: catalogDomain.BillingCycleMonthly}
		existing := &subscriptionDomain.Subscription{ID: uuid.Must(uuid.NewV7())}

		packageRepo.On("Get", ctx, pkg.ID).Return(pkg, nil).Once()
		subscriptionRepo.On("GetActiveByUserAndPackage", ctx, userID, pkg.ID, mock.AnythingOfType("time.Time")).
			Return(existing, nil).Once()

		subscription, err := uc.Subscribe(ctx, &subscriptionDomain.SubscribeInput{
			UserID:    userID,
			PackageID: pkg.ID,
		})

		require.Error(t, err)
		assert.Nil(t, subscription)
		assert.True(t, errors.Is(err, subscriptionDomain.ErrAlreadySubscribed))
		payments.AssertNotCalled(t, "Charge")
		subscriptionRepo.AssertNotCalled(t, "Create")
	})

	t.Run("PaymentDeclined", func(t *testing.T) {
		uc, subscriptionRepo, packageRepo, payments := setupSubscriptionUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		pkg := &catalogDomain.Package{ID: uuid.Must(uuid.NewV7()), PriceCents: 1999, Cycle: catalogDomain.BillingCycleMonthly}

		packageRepo.On("Get", ctx, pkg.ID).Return(pkg, nil).Once()
		subscriptionRepo.On("GetActiveByUserAndPackage", ctx, userID, pkg.ID, mock.AnythingOfType("time.Time")).
			Return(nil, subscriptionDomain.ErrSubscriptionNotFound).Once()
		payments.On("Charge", ctx, mock.AnythingOfType("*service.ChargeInput")).
			Return(nil, errors.New("card declined")).Once()

		subscription, err := uc.Subscribe(ctx, &subscriptionDomain.SubscribeInput{
			UserID:    userID,
			PackageID: pkg.ID,
		})

		require.Error(t, err)
		assert.Nil(t, subscription)
		assert.True(t, errors.Is(err, subscriptionDomain.ErrPaymentFailed))
		subscriptionRepo.AssertNotCalled(t, "Create")
	})

	t.Run("UnknownPackage", func(t *testing.T) {
		uc, subscriptionRepo, packageRepo, payments := setupSubscriptionUseCase(t)

		packageID := uuid.Must(uuid.NewV7())
		packageRepo.On("Get", ctx, packageID).Return(nil, catalogDomain.ErrPackageNotFound).Once()

		subscription, err := uc.Subscribe(ctx, &subscriptionDomain.SubscribeInput{
			UserID:    uuid.Must(uuid.NewV7()),
			PackageID: packageID,
		})

		require.Error(t, err)
		assert.Nil(t, subscription)
		assert.True(t, errors.Is(err, catalogDomain.ErrPackageNotFound))
		payments.AssertNotCalled(t, "Charge")
		subscriptionRepo.AssertNotCalled(t, "GetActiveByUserAndPackage")
	})
}

func TestSubscriptionUseCase_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, subscriptionRepo, _, _ := setupSubscriptionUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		subscription := &subscriptionDomain.Subscription{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: userID,
			Status: subscriptionDomain.StatusActive,
		}

		subscriptionRepo.On("Get", ctx, subscription.ID).Return(subscription, nil).Once()
		subscriptionRepo.On("Update", ctx, mock.MatchedBy(func(s *subscriptionDomain.Subscription) bool {
			return s.Status == subscriptionDomain.StatusCanceled
		})).Return(nil).Once()

		err := uc.Cancel(ctx, userID, subscription.ID)
		require.NoError(t, err)
		subscriptionRepo.AssertExpectations(t)
	})

	t.Run("OtherUsersSubscription", func(t *testing.T) {
		uc, subscriptionRepo, _, _ := setupSubscriptionUseCase(t)

		subscription := &subscriptionDomain.Subscription{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: uuid.Must(uuid.NewV7()),
			Status: subscriptionDomain.StatusActive,
		}

		subscriptionRepo.On("Get", ctx, subscription.ID).Return(subscription, nil).Once()

		err := uc.Cancel(ctx, uuid.Must(uuid.NewV7()), subscription.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, subscriptionDomain.ErrSubscriptionNotFound))
		subscriptionRepo.AssertNotCalled(t, "Update")
	})
}

func TestSubscriptionUseCase_RenewDue(t *testing.T) {
	ctx := context.Background()

	t.Run("RenewsAndMarksPastDue", func(t *testing.T) {
		uc, subscriptionRepo, packageRepo, payments := setupSubscriptionUseCase(t)

		now := time.Now().UTC()
		pkg := &catalogDomain.Package{
			ID:         uuid.Must(uuid.NewV7()),
			Name:       "starter",
			PriceCents: 1999,
			Cycle:      catalogDomain.BillingCycleMonthly,
		}
		payingUser := uuid.Must(uuid.NewV7())
		brokeUser := uuid.Must(uuid.NewV7())

		renewable := &subscriptionDomain.Subscription{
			ID:               uuid.Must(uuid.NewV7()),
			UserID:           payingUser,
			PackageID:        pkg.ID,
			Status:           subscriptionDomain.StatusActive,
			CurrentPeriodEnd: now.Add(time.Hour),
		}
		declining := &subscriptionDomain.Subscription{
			ID:               uuid.Must(uuid.NewV7()),
			UserID:           brokeUser,
			PackageID:        pkg.ID,
			Status:           subscriptionDomain.StatusActive,
			CurrentPeriodEnd: now.Add(2 * time.Hour),
		}

		subscriptionRepo.On("ListDueForRenewal", ctx, mock.AnythingOfType("time.Time"), 100).
			Return([]*subscriptionDomain.Subscription{renewable, declining}, nil).Once()
		packageRepo.On("Get", ctx, pkg.ID).Return(pkg, nil).Twice()
		payments.On("Charge", ctx, mock.MatchedBy(func(input *subscriptionService.ChargeInput) bool {
			return input.UserID == payingUser
		})).Return(&subscriptionService.ChargeOutput{TransactionID: "txn-1"}, nil).Once()
		payments.On("Charge", ctx, mock.MatchedBy(func(input *subscriptionService.ChargeInput) bool {
			return input.UserID == brokeUser
		})).Return(nil, errors.New("card declined")).Once()
		subscriptionRepo.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil).Twice()

		report, err := uc.RenewDue(ctx, now.Add(24*time.Hour), 100)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Renewed)
		assert.Equal(t, 1, report.MarkedPastDue)
		assert.Equal(t, subscriptionDomain.StatusPastDue, declining.Status)
		assert.Equal(t, subscriptionDomain.StatusActive, renewable.Status)
		subscriptionRepo.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("NothingDue", func(t *testing.T) {
		uc, subscriptionRepo, _, payments := setupSubscriptionUseCase(t)

		subscriptionRepo.On("ListDueForRenewal", ctx, mock.AnythingOfType("time.Time"), 100).
			Return([]*subscriptionDomain.Subscription{}, nil).Once()

		report, err := uc.RenewDue(ctx, time.Now().UTC(), 100)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Renewed)
		assert.Equal(t, 0, report.MarkedPastDue)
		payments.AssertNotCalled(t, "Charge")
	})
}

func TestSubscriptionUseCase_ChangePackage(t *testing.T) {
	ctx := context.Background()

	uc, subscriptionRepo, packageRepo, payments := setupSubscriptionUseCase(t)

	userID := uuid.Must(uuid.NewV7())
	oldPackageID := uuid.Must(uuid.NewV7())
	newPkg := &catalogDomain.Package{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       "pro",
		PriceCents: 4999,
		Cycle:      catalogDomain.BillingCycleYearly,
	}
	subscription := &subscriptionDomain.Subscription{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		PackageID: oldPackageID,
		Status:    subscriptionDomain.StatusActive,
	}

	subscriptionRepo.On("Get", ctx, subscription.ID).Return(subscription, nil).Once()
	packageRepo.On("Get", ctx, newPkg.ID).Return(newPkg, nil).Once()
	payments.On("Charge", ctx, mock.AnythingOfType("*service.ChargeInput")).
		Return(&subscriptionService.ChargeOutput{TransactionID: "txn-2"}, nil).Once()
	subscriptionRepo.On("Update", ctx, mock.MatchedBy(func(s *subscriptionDomain.Subscription) bool {
		return s.PackageID == newPkg.ID
	})).Return(nil).Once()

	updated, err := uc.ChangePackage(ctx, userID, subscription.ID, newPkg.ID)
	require.NoError(t, err)
	assert.Equal(t, newPkg.ID, updated.PackageID)
	subscriptionRepo.AssertExpectations(t)
}
