// Package services orchestrates ledger operations across storage and the
// sync pipeline. Services own validation and business rules; repositories
// only persist.
package services

import (
	"context"

	"gastos/internal/core"
)

// Repository is the persistence surface the services need. Both the SQLite
// and the in-memory repository satisfy it.
type Repository interface {
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	CreateInstallmentGroup(ctx context.Context, group []core.Expense) ([]core.Expense, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	SoftDeleteExpense(ctx context.Context, id int64) error
	SoftDeleteGroup(ctx context.Context, rootID int64) (int64, error)
	ListExpenses(ctx context.Context, userID string, profile core.Profile, year, month int) ([]core.Expense, error)
	ListCardExpenses(ctx context.Context, cardID int64, period core.Period) ([]core.Expense, error)

	CreateIncome(ctx context.Context, in core.Income) (int64, error)
	GetIncome(ctx context.Context, id int64) (core.Income, error)
	SoftDeleteIncome(ctx context.Context, id int64) error
	ListIncomes(ctx context.Context, userID string, profile core.Profile, year, month int) ([]core.Income, error)

	CreateCard(ctx context.Context, c core.Card) (int64, error)
	GetCard(ctx context.Context, id int64) (core.Card, error)
	ListCards(ctx context.Context, userID string, profile core.Profile) ([]core.Card, error)
	UpdateCardTerms(ctx context.Context, id int64, limit core.Money, closingDay, dueDay int) error
	DeleteCard(ctx context.Context, id int64) error

	SumCardCharges(ctx context.Context, cardID int64) (int64, error)

	CreateBillPayment(ctx context.Context, bp core.BillPayment) (int64, error)
	ListCardBillPayments(ctx context.Context, cardID int64, period core.Period) ([]core.BillPayment, error)
	SumCardPaid(ctx context.Context, cardID int64) (int64, error)
	SumCardRefunded(ctx context.Context, cardID int64) (int64, error)

	CreateReserveContribution(ctx context.Context, rc core.ReserveContribution) (int64, error)
	ListReserveContributions(ctx context.Context, userID string, profile core.Profile) ([]core.ReserveContribution, error)
	ReserveBalance(ctx context.Context, userID string, profile core.Profile) (int64, error)
}

// EventPublisher emits sync events after a successful write. A nil publisher
// disables the pipeline; publish failures never fail the request.
type EventPublisher interface {
	PublishLedgerSync(ctx context.Context, kind, op string, id int64) error
}
