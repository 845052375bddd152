package services

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/core"
)

// CardService manages cards, computes statements and reconciles bill
// payments. Statements are never stored; every read recomputes from the
// live ledger.
type CardService struct {
	repo      Repository
	publisher EventPublisher

	// toleranceCents is the slack allowed above the outstanding balance
	// when recording a regular payment, to absorb interest or rounding
	// charged by the issuer.
	toleranceCents int64
}

func NewCardService(repo Repository, publisher EventPublisher, toleranceCents int64) *CardService {
	if toleranceCents < 0 {
		toleranceCents = 0
	}
	return &CardService{repo: repo, publisher: publisher, toleranceCents: toleranceCents}
}

// Statement is one card's bill for a billing period, recomputed on read.
type Statement struct {
	Card        core.Card
	Period      core.Period
	Total       core.Money
	Paid        core.Money
	Outstanding core.Money
	Activity    []core.Transaction
}

func (s *CardService) CreateCard(ctx context.Context, c core.Card) (core.Card, error) {
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}
	id, err := s.repo.CreateCard(ctx, c)
	if err != nil {
		return core.Card{}, err
	}
	c.ID = id

	slog.InfoContext(ctx, "Card created",
		"id", id, "profile", c.Profile, "closing_day", c.ClosingDay, "due_day", c.DueDay)
	return c, nil
}

func (s *CardService) ListCards(ctx context.Context, userID string, profile core.Profile) ([]core.Card, error) {
	return s.repo.ListCards(ctx, userID, profile)
}

// UpdateCardTerms changes a card's limit and cycle days. Name and profile
// are fixed for the card's lifetime.
func (s *CardService) UpdateCardTerms(ctx context.Context, userID string, id int64, limit core.Money, closingDay, dueDay int) error {
	card, err := s.ownedCard(ctx, id, userID)
	if err != nil {
		return err
	}
	card.Limit = limit
	card.ClosingDay = closingDay
	card.DueDay = dueDay
	if err := card.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateCardTerms(ctx, id, limit, closingDay, dueDay)
}

func (s *CardService) DeleteCard(ctx context.Context, userID string, id int64) error {
	if _, err := s.ownedCard(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.DeleteCard(ctx, id)
}

// Statement computes the card's bill for the billing period containing ref.
func (s *CardService) Statement(ctx context.Context, userID string, cardID int64, ref core.Date) (Statement, error) {
	card, err := s.ownedCard(ctx, cardID, userID)
	if err != nil {
		return Statement{}, err
	}

	period := core.BillingPeriod(card.ClosingDay, ref)
	expenses, err := s.repo.ListCardExpenses(ctx, cardID, period)
	if err != nil {
		return Statement{}, err
	}
	payments, err := s.repo.ListCardBillPayments(ctx, cardID, period)
	if err != nil {
		return Statement{}, err
	}

	activity := core.CardActivity(expenses, payments)
	return Statement{
		Card:        card,
		Period:      period,
		Total:       core.StatementTotal(expenses),
		Paid:        core.PaidTotal(payments),
		Outstanding: core.OutstandingBalance(activity),
		Activity:    activity,
	}, nil
}

// RecordBillPayment validates and appends one bill transaction.
//
// A regular payment may not exceed the outstanding balance of the billing
// period containing its date, plus the configured tolerance. An anticipation
// pays ahead of an unclosed statement and is exempt from the cap. A refund
// may not exceed what was actually paid on the card so far, net of earlier
// refunds. Expenses are never mutated.
func (s *CardService) RecordBillPayment(ctx context.Context, bp core.BillPayment) (core.BillPayment, error) {
	if err := bp.Validate(); err != nil {
		return core.BillPayment{}, err
	}
	card, err := s.ownedCard(ctx, bp.CardID, bp.UserID)
	if err != nil {
		return core.BillPayment{}, err
	}
	if card.Profile != bp.Profile {
		return core.BillPayment{}, fmt.Errorf("card %d: %w", bp.CardID, core.ErrNotFound)
	}

	switch bp.Type {
	case core.BillPaymentRegular:
		outstanding, err := s.cardOutstanding(ctx, bp.CardID)
		if err != nil {
			return core.BillPayment{}, err
		}
		if bp.Amount.Cents > outstanding+s.toleranceCents {
			return core.BillPayment{}, fmt.Errorf(
				"payment of %s against outstanding %s: %w",
				bp.Amount, core.Money{Cents: outstanding}, core.ErrPaymentTooLarge)
		}
	case core.BillPaymentAnticipate:
		// No cap: anticipations pay down charges before the statement closes.
	case core.BillPaymentRefund:
		paid, err := s.repo.SumCardPaid(ctx, bp.CardID)
		if err != nil {
			return core.BillPayment{}, err
		}
		refunded, err := s.repo.SumCardRefunded(ctx, bp.CardID)
		if err != nil {
			return core.BillPayment{}, err
		}
		if bp.Amount.Cents > paid-refunded {
			return core.BillPayment{}, fmt.Errorf(
				"refund of %s with %s refundable: %w",
				bp.Amount, core.Money{Cents: paid - refunded}, core.ErrRefundExceedsPaid)
		}
	}

	id, err := s.repo.CreateBillPayment(ctx, bp)
	if err != nil {
		return core.BillPayment{}, err
	}
	bp.ID = id

	if s.publisher != nil {
		if err := s.publisher.PublishLedgerSync(ctx, amqp.KindBillPayment, amqp.OpUpsert, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				"kind", amqp.KindBillPayment, "id", id, "error", err)
		}
	}
	return bp, nil
}

// cardOutstanding computes the card-lifetime outstanding balance in cents:
// all live charges, minus everything paid or anticipated, plus refunds. The
// payment cap uses this rather than a single statement window so payments
// dated after a closing still reconcile against the bill they settle.
func (s *CardService) cardOutstanding(ctx context.Context, cardID int64) (int64, error) {
	charges, err := s.repo.SumCardCharges(ctx, cardID)
	if err != nil {
		return 0, err
	}
	paid, err := s.repo.SumCardPaid(ctx, cardID)
	if err != nil {
		return 0, err
	}
	refunded, err := s.repo.SumCardRefunded(ctx, cardID)
	if err != nil {
		return 0, err
	}
	return charges - paid + refunded, nil
}

func (s *CardService) ownedCard(ctx context.Context, id int64, userID string) (core.Card, error) {
	card, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return core.Card{}, err
	}
	if card.UserID != userID {
		return core.Card{}, fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	return card, nil
}
