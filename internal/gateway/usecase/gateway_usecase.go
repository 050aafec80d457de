package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/gateway/internal/errors"
	gatewayDomain "github.com/allisson/gateway/internal/gateway/domain"
	"github.com/allisson/gateway/internal/metrics"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
	usageUseCase "github.com/allisson/gateway/internal/usage/usecase"
)

// gatewayUseCase implements GatewayUseCase, wiring the pipeline stages
// together. The order is fixed: resolve, api lookup, entitlement, quota,
// forward, record. A rejection at any stage means the stages after it
// never run, so rejected requests consume no quota and record no usage.
type gatewayUseCase struct {
	resolver   KeyResolver
	apiRepo    APIRepository
	checker    EntitlementChecker
	accountant QuotaAccountant
	forwarder  Forwarder
	recorder   usageUseCase.UsageRecorder
	metrics    metrics.GatewayMetrics
}

// Dispatch checks the request through the pipeline and forwards it.
// Exactly one usage recording is scheduled per forwarded call, carrying
// the observed latency and upstream status. A call that was admitted but
// failed upstream still consumed quota and is still recorded, with the
// bad-gateway status.
func (g *gatewayUseCase) Dispatch(ctx context.Context, input *DispatchInput) (*ForwardOutput, error) {
	keyContext, err := g.resolver.Resolve(ctx, input.Key)
	if err != nil {
		g.metrics.RecordAdmission(ctx, outcomeForError(err))
		return nil, err
	}

	api, err := g.apiRepo.Get(ctx, keyContext.APIID)
	if err != nil {
		g.metrics.RecordAdmission(ctx, outcomeForError(err))
		return nil, err
	}

	hasAccess, err := g.checker.HasAccess(ctx, keyContext.UserID, keyContext.APIID)
	if err != nil {
		g.metrics.RecordAdmission(ctx, gatewayDomain.OutcomeInternalError)
		return nil, err
	}
	if !hasAccess {
		g.metrics.RecordAdmission(ctx, gatewayDomain.OutcomeForbidden)
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "no active subscription covers this api")
	}

	decision, err := g.accountant.CheckAndReserve(ctx, keyContext.APIKeyID, api.UsageLimit)
	if err != nil {
		g.metrics.RecordAdmission(ctx, gatewayDomain.OutcomeInternalError)
		return nil, err
	}
	if !decision.Admitted {
		g.metrics.RecordAdmission(ctx, gatewayDomain.OutcomeQuotaExceeded)
		return nil, apperrors.Wrap(apperrors.ErrQuotaExceeded, "monthly usage limit reached")
	}

	start := time.Now().UTC()
	output, err := g.forwarder.Forward(ctx, &ForwardInput{
		Method:   input.Method,
		Endpoint: api.Endpoint,
		Path:     input.Path,
		RawQuery: input.RawQuery,
		Header:   input.Header,
		Body:     input.Body,
	})
	latency := time.Since(start)

	statusCode := http.StatusBadGateway
	if err == nil {
		statusCode = output.StatusCode
	}

	// The reservation already happened, so the call is recorded whether or
	// not the upstream answered.
	g.recorder.Enqueue(&usageDomain.UsageEvent{
		ID:         uuid.Must(uuid.NewV7()),
		APIKeyID:   keyContext.APIKeyID,
		Timestamp:  start,
		Endpoint:   input.Path,
		LatencyMS:  latency.Milliseconds(),
		StatusCode: statusCode,
	})

	if err != nil {
		g.metrics.RecordAdmission(ctx, gatewayDomain.OutcomeUpstreamError)
		return nil, err
	}

	g.metrics.RecordAdmission(ctx, gatewayDomain.OutcomeAdmitted)

	return output, nil
}

// outcomeForError maps a pipeline error to its admission outcome label.
func outcomeForError(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return gatewayDomain.OutcomeUnauthenticated
	case apperrors.Is(err, apperrors.ErrNotFound):
		return gatewayDomain.OutcomeNotFound
	default:
		return gatewayDomain.OutcomeInternalError
	}
}

// NewGatewayUseCase creates a GatewayUseCase with required dependencies.
func NewGatewayUseCase(
	resolver KeyResolver,
	apiRepo APIRepository,
	checker EntitlementChecker,
	accountant QuotaAccountant,
	forwarder Forwarder,
	recorder usageUseCase.UsageRecorder,
	m metrics.GatewayMetrics,
) GatewayUseCase {
	return &gatewayUseCase{
		resolver:   resolver,
		apiRepo:    apiRepo,
		checker:    checker,
		accountant: accountant,
		forwarder:  forwarder,
		recorder:   recorder,
		metrics:    m,
	}
}
