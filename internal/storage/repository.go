// Package storage persists the ledger in SQLite behind a repository API.
// Amounts are stored as integer cents, dates as YYYY-MM-DD text so period
// filters compare lexicographically.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gastos/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const expenseColumns = `id, user_id, profile, description, amount_cents, main_category,
subcategory, date, payment_method, card_id, installments, current_installment, original_expense_id`

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		e        core.Expense
		dateStr  string
		cardID   sql.NullInt64
		original sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Profile, &e.Description, &e.Amount.Cents,
		&e.MainCategory, &e.Subcategory, &dateStr, &e.PaymentMethod,
		&cardID, &e.Installments, &e.CurrentInstallment, &original)
	if err != nil {
		return core.Expense{}, err
	}
	e.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("corrupt expense date: %w", err)
	}
	e.CardID = cardID.Int64
	e.OriginalExpenseID = original.Int64
	return e, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// CreateExpense inserts one standalone expense and returns its id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO expenses (user_id, profile, description, amount_cents, main_category,
  subcategory, date, payment_method, card_id, installments, current_installment, original_expense_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, string(e.Profile), e.Description, e.Amount.Cents, e.MainCategory,
		e.Subcategory, e.Date.String(), string(e.PaymentMethod), nullID(e.CardID),
		e.Installments, e.CurrentInstallment, nullID(e.OriginalExpenseID))
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"profile", e.Profile,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())

	return id, nil
}

// CreateInstallmentGroup writes all installment records of one purchase in a
// single transaction: either every record exists afterwards or none does.
// The first record is the group root; its id is stamped onto the siblings'
// original_expense_id. Returns the records with ids filled in.
func (r *SQLiteRepository) CreateInstallmentGroup(ctx context.Context, group []core.Expense) ([]core.Expense, error) {
	if len(group) == 0 {
		return nil, errors.New("empty installment group")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin installment tx: %w", err)
	}
	defer tx.Rollback()

	out := make([]core.Expense, len(group))
	var rootID int64
	for i, e := range group {
		if i > 0 {
			e.OriginalExpenseID = rootID
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO expenses (user_id, profile, description, amount_cents, main_category,
  subcategory, date, payment_method, card_id, installments, current_installment, original_expense_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.UserID, string(e.Profile), e.Description, e.Amount.Cents, e.MainCategory,
			e.Subcategory, e.Date.String(), string(e.PaymentMethod), nullID(e.CardID),
			e.Installments, e.CurrentInstallment, nullID(e.OriginalExpenseID))
		if err != nil {
			return nil, fmt.Errorf("insert installment %d/%d: %w", i+1, len(group), err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("installment insert id: %w", err)
		}
		if i == 0 {
			rootID = id
		}
		e.ID = id
		out[i] = e
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit installment group: %w", err)
	}

	slog.InfoContext(ctx, "Installment group saved",
		"root_id", rootID,
		"installments", len(group))

	return out, nil
}

// GetExpense retrieves a live (not soft-deleted) expense by id.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND deleted_at IS NULL`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense rewrites the editable fields of one expense. Installment
// bookkeeping fields are never touched; editing one sibling does not
// rebalance the group.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE expenses SET description = ?, amount_cents = ?, main_category = ?,
  subcategory = ?, date = ?, payment_method = ?, card_id = ?
WHERE id = ? AND deleted_at IS NULL`,
		e.Description, e.Amount.Cents, e.MainCategory, e.Subcategory,
		e.Date.String(), string(e.PaymentMethod), nullID(e.CardID), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d: %w", e.ID, core.ErrNotFound)
	}
	return nil
}

// SoftDeleteExpense marks a single expense deleted.
func (r *SQLiteRepository) SoftDeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE expenses SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("soft delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// SoftDeleteGroup deletes an installment group root together with all
// siblings in one statement, so the group goes atomically. Returns how many
// records were deleted.
func (r *SQLiteRepository) SoftDeleteGroup(ctx context.Context, rootID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE expenses SET deleted_at = ?
WHERE (id = ? OR original_expense_id = ?) AND deleted_at IS NULL`,
		time.Now().UTC(), rootID, rootID)
	if err != nil {
		return 0, fmt.Errorf("soft delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("soft delete group rows: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("installment group %d: %w", rootID, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Installment group deleted", "root_id", rootID, "records", n)
	return n, nil
}

// ListExpenses returns a user's live expenses for one profile and month,
// ordered by date.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string, profile core.Profile, year, month int) ([]core.Expense, error) {
	from := core.NewDate(year, month, 1)
	to := from.AddMonths(1)
	rows, err := r.db.QueryContext(ctx, `
SELECT `+expenseColumns+` FROM expenses
WHERE user_id = ? AND profile = ? AND date >= ? AND date < ? AND deleted_at IS NULL
ORDER BY date, id`,
		userID, string(profile), from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListCardExpenses returns the live expenses charged to a card inside the
// half-open statement period (start, end].
func (r *SQLiteRepository) ListCardExpenses(ctx context.Context, cardID int64, period core.Period) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+expenseColumns+` FROM expenses
WHERE card_id = ? AND date > ? AND date <= ? AND deleted_at IS NULL
ORDER BY date, id`,
		cardID, period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("list card expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateIncome inserts an income record. Incomes are immutable once
// created; there is no update path.
func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO incomes (user_id, profile, description, amount_cents, main_category, subcategory, date)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, string(in.Profile), in.Description, in.Amount.Cents,
		in.MainCategory, in.Subcategory, in.Date.String())
	if err != nil {
		return 0, fmt.Errorf("create income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income insert id: %w", err)
	}
	return id, nil
}

// GetIncome retrieves a live income record by id.
func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	var (
		in      core.Income
		dateStr string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, profile, description, amount_cents, main_category, subcategory, date
FROM incomes WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(&in.ID, &in.UserID, &in.Profile, &in.Description, &in.Amount.Cents,
			&in.MainCategory, &in.Subcategory, &dateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, fmt.Errorf("income %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	if in.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Income{}, fmt.Errorf("corrupt income date: %w", err)
	}
	return in, nil
}

func (r *SQLiteRepository) SoftDeleteIncome(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE incomes SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("soft delete income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete income rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("income %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID string, profile core.Profile, year, month int) ([]core.Income, error) {
	from := core.NewDate(year, month, 1)
	to := from.AddMonths(1)
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, profile, description, amount_cents, main_category, subcategory, date
FROM incomes
WHERE user_id = ? AND profile = ? AND date >= ? AND date < ? AND deleted_at IS NULL
ORDER BY date, id`,
		userID, string(profile), from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var (
			in      core.Income
			dateStr string
		)
		if err := rows.Scan(&in.ID, &in.UserID, &in.Profile, &in.Description,
			&in.Amount.Cents, &in.MainCategory, &in.Subcategory, &dateStr); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if in.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("corrupt income date: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCard(ctx context.Context, c core.Card) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (user_id, profile, name, limit_cents, closing_day, due_day)
VALUES (?, ?, ?, ?, ?, ?)`,
		c.UserID, string(c.Profile), c.Name, c.Limit.Cents, c.ClosingDay, c.DueDay)
	if err != nil {
		return 0, fmt.Errorf("create card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("card insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetCard(ctx context.Context, id int64) (core.Card, error) {
	var c core.Card
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, profile, name, limit_cents, closing_day, due_day, created_at
FROM cards WHERE id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Profile, &c.Name, &c.Limit.Cents,
			&c.ClosingDay, &c.DueDay, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Card{}, fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Card{}, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCards(ctx context.Context, userID string, profile core.Profile) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, profile, name, limit_cents, closing_day, due_day, created_at
FROM cards WHERE user_id = ? AND profile = ? ORDER BY id`,
		userID, string(profile))
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []core.Card
	for rows.Next() {
		var c core.Card
		if err := rows.Scan(&c.ID, &c.UserID, &c.Profile, &c.Name, &c.Limit.Cents,
			&c.ClosingDay, &c.DueDay, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCardTerms mutates the only card fields that may ever change: the
// limit and the closing/due days.
func (r *SQLiteRepository) UpdateCardTerms(ctx context.Context, id int64, limit core.Money, closingDay, dueDay int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE cards SET limit_cents = ?, closing_day = ?, due_day = ? WHERE id = ?`,
		limit.Cents, closingDay, dueDay, id)
	if err != nil {
		return fmt.Errorf("update card terms: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// DeleteCard removes a card only when no expense or bill payment still
// references it.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, id int64) error {
	var refs int
	err := r.db.QueryRowContext(ctx, `
SELECT (SELECT COUNT(*) FROM expenses WHERE card_id = ? AND deleted_at IS NULL)
     + (SELECT COUNT(*) FROM bill_payments WHERE card_id = ?)`, id, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count card references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("card %d: %w", id, core.ErrCardInUse)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) CreateBillPayment(ctx context.Context, bp core.BillPayment) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO bill_payments (user_id, profile, card_id, type, amount_cents, date)
VALUES (?, ?, ?, ?, ?, ?)`,
		bp.UserID, string(bp.Profile), bp.CardID, string(bp.Type), bp.Amount.Cents, bp.Date.String())
	if err != nil {
		return 0, fmt.Errorf("create bill payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("bill payment insert id: %w", err)
	}

	slog.InfoContext(ctx, "Bill payment recorded",
		"id", id,
		"card_id", bp.CardID,
		"type", bp.Type,
		"amount_cents", bp.Amount.Cents)

	return id, nil
}

// GetBillPayment retrieves one bill payment by id.
func (r *SQLiteRepository) GetBillPayment(ctx context.Context, id int64) (core.BillPayment, error) {
	var (
		bp      core.BillPayment
		dateStr string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, profile, card_id, type, amount_cents, date
FROM bill_payments WHERE id = ?`, id).
		Scan(&bp.ID, &bp.UserID, &bp.Profile, &bp.CardID, &bp.Type, &bp.Amount.Cents, &dateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BillPayment{}, fmt.Errorf("bill payment %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.BillPayment{}, fmt.Errorf("get bill payment: %w", err)
	}
	if bp.Date, err = core.ParseDate(dateStr); err != nil {
		return core.BillPayment{}, fmt.Errorf("corrupt bill payment date: %w", err)
	}
	return bp, nil
}

// ListCardBillPayments returns a card's bill payments inside the half-open
// statement period (start, end].
func (r *SQLiteRepository) ListCardBillPayments(ctx context.Context, cardID int64, period core.Period) ([]core.BillPayment, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, profile, card_id, type, amount_cents, date
FROM bill_payments
WHERE card_id = ? AND date > ? AND date <= ?
ORDER BY date, id`,
		cardID, period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("list bill payments: %w", err)
	}
	defer rows.Close()

	var out []core.BillPayment
	for rows.Next() {
		var (
			bp      core.BillPayment
			dateStr string
		)
		if err := rows.Scan(&bp.ID, &bp.UserID, &bp.Profile, &bp.CardID,
			&bp.Type, &bp.Amount.Cents, &dateStr); err != nil {
			return nil, fmt.Errorf("scan bill payment: %w", err)
		}
		if bp.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("corrupt bill payment date: %w", err)
		}
		out = append(out, bp)
	}
	return out, rows.Err()
}

// SumCardCharges totals every live expense ever charged to a card.
func (r *SQLiteRepository) SumCardCharges(ctx context.Context, cardID int64) (int64, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
WHERE card_id = ? AND deleted_at IS NULL`, cardID).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("sum card charges: %w", err)
	}
	return cents, nil
}

// SumCardPaid totals every payment and anticipation ever recorded against a
// card, the ceiling for refunds.
func (r *SQLiteRepository) SumCardPaid(ctx context.Context, cardID int64) (int64, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount_cents), 0) FROM bill_payments
WHERE card_id = ? AND type IN ('payment', 'anticipate')`, cardID).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("sum card payments: %w", err)
	}
	return cents, nil
}

// SumCardRefunded totals every refund ever recorded against a card.
func (r *SQLiteRepository) SumCardRefunded(ctx context.Context, cardID int64) (int64, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount_cents), 0) FROM bill_payments
WHERE card_id = ? AND type = 'refund'`, cardID).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("sum card refunds: %w", err)
	}
	return cents, nil
}

func (r *SQLiteRepository) CreateReserveContribution(ctx context.Context, rc core.ReserveContribution) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO reserve_contributions (user_id, profile, amount_cents, date)
VALUES (?, ?, ?, ?)`,
		rc.UserID, string(rc.Profile), rc.Amount.Cents, rc.Date.String())
	if err != nil {
		return 0, fmt.Errorf("create reserve contribution: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reserve insert id: %w", err)
	}
	return id, nil
}

// GetReserveContribution retrieves one reserve entry by id.
func (r *SQLiteRepository) GetReserveContribution(ctx context.Context, id int64) (core.ReserveContribution, error) {
	var (
		rc      core.ReserveContribution
		dateStr string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, profile, amount_cents, date
FROM reserve_contributions WHERE id = ?`, id).
		Scan(&rc.ID, &rc.UserID, &rc.Profile, &rc.Amount.Cents, &dateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ReserveContribution{}, fmt.Errorf("reserve contribution %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.ReserveContribution{}, fmt.Errorf("get reserve contribution: %w", err)
	}
	if rc.Date, err = core.ParseDate(dateStr); err != nil {
		return core.ReserveContribution{}, fmt.Errorf("corrupt reserve date: %w", err)
	}
	return rc, nil
}

func (r *SQLiteRepository) ListReserveContributions(ctx context.Context, userID string, profile core.Profile) ([]core.ReserveContribution, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, profile, amount_cents, date
FROM reserve_contributions
WHERE user_id = ? AND profile = ? ORDER BY date, id`,
		userID, string(profile))
	if err != nil {
		return nil, fmt.Errorf("list reserve contributions: %w", err)
	}
	defer rows.Close()

	var out []core.ReserveContribution
	for rows.Next() {
		var (
			rc      core.ReserveContribution
			dateStr string
		)
		if err := rows.Scan(&rc.ID, &rc.UserID, &rc.Profile, &rc.Amount.Cents, &dateStr); err != nil {
			return nil, fmt.Errorf("scan reserve contribution: %w", err)
		}
		if rc.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("corrupt reserve date: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// ReserveBalance sums a profile's reserve in integer cents.
func (r *SQLiteRepository) ReserveBalance(ctx context.Context, userID string, profile core.Profile) (int64, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount_cents), 0) FROM reserve_contributions
WHERE user_id = ? AND profile = ?`, userID, string(profile)).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("reserve balance: %w", err)
	}
	return cents, nil
}
