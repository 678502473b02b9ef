package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/contracts-service/internal/events"
	"github.com/spec-kit/contracts-service/internal/persistence"
)

// BalanceCacheWorker drops cached profile entries whenever a ledger event
// changes a balance, keeping the identity cache from serving stale balances.
type BalanceCacheWorker struct {
	cache  *persistence.ProfileCache
	logger *zap.Logger
}

// NewBalanceCacheWorker constructs the worker.
func NewBalanceCacheWorker(cache *persistence.ProfileCache, logger *zap.Logger) *BalanceCacheWorker {
	return &BalanceCacheWorker{cache: cache, logger: logger}
}

// RegisterHandlers subscribes to balance-changing events.
func (w *BalanceCacheWorker) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventJobPaid, w.handleJobPaid)
	dispatcher.Subscribe(events.EventDepositAccepted, w.handleDepositAccepted)
}

func (w *BalanceCacheWorker) handleJobPaid(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.JobPaidPayload)
	if !ok {
		return nil
	}
	w.invalidate(ctx, payload.ClientID)
	w.invalidate(ctx, payload.ContractorID)
	return nil
}

func (w *BalanceCacheWorker) handleDepositAccepted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DepositAcceptedPayload)
	if !ok {
		return nil
	}
	w.invalidate(ctx, payload.ProfileID)
	return nil
}

func (w *BalanceCacheWorker) invalidate(ctx context.Context, profileID int64) {
	if err := w.cache.Invalidate(ctx, profileID); err != nil {
		w.logger.Debug("profile cache invalidation skipped",
			zap.Int64("profile_id", profileID), zap.Error(err))
	}
}
