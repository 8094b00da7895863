package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pedidos-mostrador/config"
	"pedidos-mostrador/logger"
	"pedidos-mostrador/metrics"
	"pedidos-mostrador/models"
	"pedidos-mostrador/repository"
)

// BatchSlot receives the batch produced by a confirmed shift close
type BatchSlot interface {
	SetBatch(batch *models.SettlementBatch)
}

// SettlementService closes shifts
type SettlementService struct {
	repository repository.SettlementRepositoryInterface
	clock      *Clock
	metrics    *metrics.Metrics
	maxRetries int
	backoff    time.Duration
	newToken   func() string
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	repo repository.SettlementRepositoryInterface,
	clock *Clock,
	m *metrics.Metrics,
	cfg config.SettlementConfig,
) *SettlementService {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SettlementService{
		repository: repo,
		clock:      clock,
		metrics:    m,
		maxRetries: maxRetries,
		backoff:    cfg.RetryBackoff,
		newToken:   uuid.NewString,
	}
}

// Preview returns today's completed, unarchived orders and their total without changing anything
func (s *SettlementService) Preview(ctx context.Context) (*models.ClosePreview, error) {
	return s.repository.Preview(ctx, s.clock.Today())
}

// Confirm closes the shift for today and stores the resulting batch in slot,
// replacing whatever batch it held. Serialization conflicts are retried with a
// fresh token; the slot is only written once the close has been committed.
func (s *SettlementService) Confirm(ctx context.Context, slot BatchSlot) (*models.SettlementOutcome, error) {
	log := logger.FromContext(ctx)

	for attempt := 0; ; attempt++ {
		token := s.newToken()
		now := s.clock.Now()

		outcome, err := s.repository.Confirm(ctx, token, now.Format(models.BusinessDateLayout), now)
		if err == nil {
			if slot != nil {
				slot.SetBatch(outcome.Batch)
			}
			s.metrics.RecordSettlement(len(outcome.Batch.Orders), outcome.PurgedPending, outcome.Batch.Total())
			log.Info("✅ ConfirmClose: Batch ready",
				zap.String("batch_token", token),
				zap.Int("orders", len(outcome.Batch.Orders)),
				zap.String("total", outcome.Batch.Total().StringFixed(2)))
			return outcome, nil
		}

		if !errors.Is(err, models.ErrSettlementConflict) || attempt >= s.maxRetries {
			log.Error("❌ ConfirmClose: Shift close failed", zap.Int("attempt", attempt+1), zap.Error(err))
			return nil, err
		}

		s.metrics.RecordSettlementConflict()
		wait := s.backoff * time.Duration(attempt+1)
		log.Warn("⚠️ ConfirmClose: Serialization conflict, retrying",
			zap.Int("attempt", attempt+1), zap.Duration("wait", wait), zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
