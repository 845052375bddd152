package services

import (
	"context"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/core"
)

// ReserveService keeps the append-only emergency reserve ledger, separate
// from expenses and incomes.
type ReserveService struct {
	repo      Repository
	publisher EventPublisher
}

func NewReserveService(repo Repository, publisher EventPublisher) *ReserveService {
	return &ReserveService{repo: repo, publisher: publisher}
}

func (s *ReserveService) Contribute(ctx context.Context, rc core.ReserveContribution) (core.ReserveContribution, error) {
	if err := rc.Validate(); err != nil {
		return core.ReserveContribution{}, err
	}
	id, err := s.repo.CreateReserveContribution(ctx, rc)
	if err != nil {
		return core.ReserveContribution{}, err
	}
	rc.ID = id

	if s.publisher != nil {
		if err := s.publisher.PublishLedgerSync(ctx, amqp.KindReserve, amqp.OpUpsert, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				"kind", amqp.KindReserve, "id", id, "error", err)
		}
	}
	return rc, nil
}

func (s *ReserveService) Balance(ctx context.Context, userID string, profile core.Profile) (core.Money, error) {
	cents, err := s.repo.ReserveBalance(ctx, userID, profile)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func (s *ReserveService) List(ctx context.Context, userID string, profile core.Profile) ([]core.ReserveContribution, error) {
	return s.repo.ListReserveContributions(ctx, userID, profile)
}
