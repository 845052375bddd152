// Package worker turns queued sync events into rows on the export sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/sheets"
)

// Store is the slice of the repository the worker needs: point reads for
// every exportable entry kind.
type Store interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	GetIncome(ctx context.Context, id int64) (core.Income, error)
	GetBillPayment(ctx context.Context, id int64) (core.BillPayment, error)
	GetReserveContribution(ctx context.Context, id int64) (core.ReserveContribution, error)
	GetCard(ctx context.Context, id int64) (core.Card, error)
}

// SyncWorker resolves sync messages against the database and appends the
// resolved entries to the export sheet. The sheet is append-only: delete
// events are acknowledged without touching exported rows.
type SyncWorker struct {
	store  Store
	writer sheets.RowWriter
}

func NewSyncWorker(store Store, writer sheets.RowWriter) *SyncWorker {
	return &SyncWorker{store: store, writer: writer}
}

// HandleMessage processes one ledger sync message.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	if msg.Op == amqp.OpDelete {
		slog.InfoContext(ctx, "Skipping delete event, export is append-only",
			"kind", msg.Kind, "id", msg.ID)
		return nil
	}

	row, err := w.resolve(ctx, msg)
	if err != nil {
		return err
	}

	ref, err := w.writer.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Synced ledger entry",
		"kind", msg.Kind, "id", msg.ID, "sheet_ref", ref)
	return nil
}

func (w *SyncWorker) resolve(ctx context.Context, msg *amqp.LedgerSyncMessage) (sheets.LedgerRow, error) {
	switch msg.Kind {
	case amqp.KindExpense:
		e, err := w.store.GetExpense(ctx, msg.ID)
		if err != nil {
			return sheets.LedgerRow{}, fmt.Errorf("resolve expense: %w", err)
		}
		return sheets.LedgerRow{
			Kind:         msg.Kind,
			ID:           e.ID,
			Profile:      e.Profile,
			Date:         e.Date,
			Description:  e.Description,
			Amount:       e.Amount,
			MainCategory: e.MainCategory,
			Subcategory:  e.Subcategory,
		}, nil

	case amqp.KindIncome:
		in, err := w.store.GetIncome(ctx, msg.ID)
		if err != nil {
			return sheets.LedgerRow{}, fmt.Errorf("resolve income: %w", err)
		}
		return sheets.LedgerRow{
			Kind:         msg.Kind,
			ID:           in.ID,
			Profile:      in.Profile,
			Date:         in.Date,
			Description:  in.Description,
			Amount:       in.Amount,
			MainCategory: in.MainCategory,
			Subcategory:  in.Subcategory,
		}, nil

	case amqp.KindBillPayment:
		bp, err := w.store.GetBillPayment(ctx, msg.ID)
		if err != nil {
			return sheets.LedgerRow{}, fmt.Errorf("resolve bill payment: %w", err)
		}
		cardName := fmt.Sprintf("card %d", bp.CardID)
		if card, err := w.store.GetCard(ctx, bp.CardID); err == nil {
			cardName = card.Name
		}
		return sheets.LedgerRow{
			Kind:         msg.Kind,
			ID:           bp.ID,
			Profile:      bp.Profile,
			Date:         bp.Date,
			Description:  fmt.Sprintf("%s on %s", bp.Type, cardName),
			Amount:       bp.Amount,
			MainCategory: cardName,
			Subcategory:  string(bp.Type),
		}, nil

	case amqp.KindReserve:
		rc, err := w.store.GetReserveContribution(ctx, msg.ID)
		if err != nil {
			return sheets.LedgerRow{}, fmt.Errorf("resolve reserve contribution: %w", err)
		}
		return sheets.LedgerRow{
			Kind:        msg.Kind,
			ID:          rc.ID,
			Profile:     rc.Profile,
			Date:        rc.Date,
			Description: "reserve contribution",
			Amount:      rc.Amount,
		}, nil

	default:
		return sheets.LedgerRow{}, fmt.Errorf("unknown sync kind %q", msg.Kind)
	}
}
