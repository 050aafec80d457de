package usecase

import (
	"context"
	"time"

	apperrors "github.com/allisson/gateway/internal/errors"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// usageUseCase implements UsageUseCase.
type usageUseCase struct {
	eventRepo       UsageEventRepository
	quotaRepo       QuotaCounterRepository
	apiRepo         APIRepository
	entitlementRepo EntitlementRepository
}

// Stats summarizes the user's usage over [From, To), with the applicable
// monthly limit. Filtered to one API the limit is that API's, otherwise it
// is the sum of limits across the user's accessible APIs.
func (u *usageUseCase) Stats(
	ctx context.Context,
	input *usageDomain.StatsInput,
) (*usageDomain.Stats, error) {
	total, err := u.eventRepo.TotalByUser(ctx, input.UserID, input.APIID, input.From, input.To)
	if err != nil {
		return nil, err
	}

	perDay, err := u.eventRepo.PerDayByUser(ctx, input.UserID, input.APIID, input.From, input.To)
	if err != nil {
		return nil, err
	}

	limit, err := u.applicableLimit(ctx, input)
	if err != nil {
		return nil, err
	}

	return &usageDomain.Stats{
		TotalCalls: total,
		PerDay:     perDay,
		Limit:      limit,
	}, nil
}

func (u *usageUseCase) applicableLimit(ctx context.Context, input *usageDomain.StatsInput) (int64, error) {
	if input.APIID != nil {
		api, err := u.apiRepo.Get(ctx, *input.APIID)
		if err != nil {
			return 0, err
		}
		return api.UsageLimit, nil
	}

	apiIDs, err := u.entitlementRepo.AccessibleAPIIDs(ctx, input.UserID, time.Now().UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to list accessible apis")
	}

	var limit int64
	for _, apiID := range apiIDs {
		api, err := u.apiRepo.Get(ctx, apiID)
		if err != nil {
			return 0, err
		}
		limit += api.UsageLimit
	}

	return limit, nil
}

// Reconcile rewrites quota counters for windows starting before the given
// time from the ledger counts. A crash between a quota reservation and the
// usage recording leaves the counter ahead of the ledger, this sweep is
// the correction.
func (u *usageUseCase) Reconcile(
	ctx context.Context,
	before time.Time,
	limit int,
) (*ReconcileReport, error) {
	counters, err := u.quotaRepo.ListCountersBefore(ctx, before, limit)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{}
	for _, counter := range counters {
		report.Checked++

		windowEnd := usageDomain.WindowEnd(counter.WindowStart)
		ledgerCount, err := u.eventRepo.CountByKeyAndWindow(ctx, counter.APIKeyID, counter.WindowStart, windowEnd)
		if err != nil {
			return report, err
		}

		if ledgerCount == counter.Count {
			continue
		}

		if err := u.quotaRepo.SetCount(ctx, counter.APIKeyID, counter.WindowStart, ledgerCount); err != nil {
			return report, err
		}
		report.Rewritten++
	}

	return report, nil
}

// NewUsageUseCase creates a new UsageUseCase with required dependencies.
func NewUsageUseCase(
	eventRepo UsageEventRepository,
	quotaRepo QuotaCounterRepository,
	apiRepo APIRepository,
	entitlementRepo EntitlementRepository,
) UsageUseCase {
	return &usageUseCase{
		eventRepo:       eventRepo,
		quotaRepo:       quotaRepo,
		apiRepo:         apiRepo,
		entitlementRepo: entitlementRepo,
	}
}
