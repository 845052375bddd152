package services

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/core"
)

// LedgerService handles expense and income writes. Records land in storage
// first; a sync event follows on a best-effort basis.
type LedgerService struct {
	repo      Repository
	publisher EventPublisher
}

func NewLedgerService(repo Repository, publisher EventPublisher) *LedgerService {
	return &LedgerService{repo: repo, publisher: publisher}
}

// CreatePurchase validates a purchase, splits it into installments and writes
// the resulting records. A single-installment purchase becomes one plain
// expense; a multi-installment one is written as an atomic group.
func (s *LedgerService) CreatePurchase(ctx context.Context, p core.Purchase) ([]core.Expense, error) {
	if p.PaymentMethod == core.PayCredit {
		if err := s.checkCard(ctx, p.CardID, p.UserID, p.Profile); err != nil {
			return nil, err
		}
	}

	group, err := core.SplitPurchase(p)
	if err != nil {
		return nil, err
	}

	if len(group) == 1 {
		id, err := s.repo.CreateExpense(ctx, group[0])
		if err != nil {
			return nil, err
		}
		group[0].ID = id
	} else {
		group, err = s.repo.CreateInstallmentGroup(ctx, group)
		if err != nil {
			return nil, err
		}
	}

	for _, e := range group {
		s.publish(ctx, amqp.KindExpense, amqp.OpUpsert, e.ID)
	}
	return group, nil
}

func (s *LedgerService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

// UpdateExpense rewrites one expense's editable fields. Editing an
// installment record never rebalances its siblings.
func (s *LedgerService) UpdateExpense(ctx context.Context, e core.Expense) error {
	current, err := s.repo.GetExpense(ctx, e.ID)
	if err != nil {
		return err
	}
	// Installment bookkeeping is immutable.
	e.UserID = current.UserID
	e.Profile = current.Profile
	e.Installments = current.Installments
	e.CurrentInstallment = current.CurrentInstallment
	e.OriginalExpenseID = current.OriginalExpenseID

	if err := e.Validate(); err != nil {
		return err
	}
	if e.PaymentMethod == core.PayCredit && e.CardID != current.CardID {
		if err := s.checkCard(ctx, e.CardID, e.UserID, e.Profile); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return err
	}
	s.publish(ctx, amqp.KindExpense, amqp.OpUpsert, e.ID)
	return nil
}

// DeleteExpense soft-deletes an expense. Deleting any record of an
// installment group removes the whole group.
func (s *LedgerService) DeleteExpense(ctx context.Context, id int64) error {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return err
	}

	if e.Installments > 1 {
		rootID := e.OriginalExpenseID
		if rootID == 0 {
			rootID = e.ID
		}
		n, err := s.repo.SoftDeleteGroup(ctx, rootID)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "Installment group removed", "root_id", rootID, "records", n)
	} else if err := s.repo.SoftDeleteExpense(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.KindExpense, amqp.OpDelete, id)
	return nil
}

func (s *LedgerService) ListExpenses(ctx context.Context, userID string, profile core.Profile, year, month int) ([]core.Expense, error) {
	return s.repo.ListExpenses(ctx, userID, profile, year, month)
}

func (s *LedgerService) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	id, err := s.repo.CreateIncome(ctx, in)
	if err != nil {
		return core.Income{}, err
	}
	in.ID = id
	s.publish(ctx, amqp.KindIncome, amqp.OpUpsert, id)
	return in, nil
}

func (s *LedgerService) DeleteIncome(ctx context.Context, id int64) error {
	if err := s.repo.SoftDeleteIncome(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.KindIncome, amqp.OpDelete, id)
	return nil
}

// DeleteOwnedIncome deletes an income only when it belongs to userID.
func (s *LedgerService) DeleteOwnedIncome(ctx context.Context, userID string, id int64) error {
	in, err := s.repo.GetIncome(ctx, id)
	if err != nil {
		return err
	}
	if in.UserID != userID {
		return fmt.Errorf("income %d: %w", id, core.ErrNotFound)
	}
	return s.DeleteIncome(ctx, id)
}

func (s *LedgerService) ListIncomes(ctx context.Context, userID string, profile core.Profile, year, month int) ([]core.Income, error) {
	return s.repo.ListIncomes(ctx, userID, profile, year, month)
}

// checkCard verifies the card exists and belongs to the caller's user and
// profile. Cross-profile charges are rejected as not found.
func (s *LedgerService) checkCard(ctx context.Context, cardID int64, userID string, profile core.Profile) error {
	if cardID == 0 {
		return core.ErrMissingCard
	}
	card, err := s.repo.GetCard(ctx, cardID)
	if err != nil {
		return err
	}
	if card.UserID != userID || card.Profile != profile {
		return fmt.Errorf("card %d: %w", cardID, core.ErrNotFound)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, kind, op string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerSync(ctx, kind, op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"kind", kind, "op", op, "id", id, "error", err)
	}
}
