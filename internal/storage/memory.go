package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gastos/internal/core"
)

// MemoryRepository keeps the whole ledger in process memory. It backs the
// "memory" data backend and the service tests, and mirrors the SQLite
// repository's semantics including soft deletes and group atomicity.
type MemoryRepository struct {
	mu sync.RWMutex

	nextID       int64
	expenses     map[int64]core.Expense
	deletedExp   map[int64]bool
	incomes      map[int64]core.Income
	deletedInc   map[int64]bool
	cards        map[int64]core.Card
	billPayments map[int64]core.BillPayment
	reserve      map[int64]core.ReserveContribution
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		expenses:     make(map[int64]core.Expense),
		deletedExp:   make(map[int64]bool),
		incomes:      make(map[int64]core.Income),
		deletedInc:   make(map[int64]bool),
		cards:        make(map[int64]core.Card),
		billPayments: make(map[int64]core.BillPayment),
		reserve:      make(map[int64]core.ReserveContribution),
	}
}

func (m *MemoryRepository) Close() error { return nil }

func (m *MemoryRepository) nextIDLocked() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemoryRepository) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextIDLocked()
	m.expenses[e.ID] = e
	return e.ID, nil
}

func (m *MemoryRepository) CreateInstallmentGroup(_ context.Context, group []core.Expense) ([]core.Expense, error) {
	if len(group) == 0 {
		return nil, fmt.Errorf("empty installment group")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Expense, len(group))
	var rootID int64
	for i, e := range group {
		e.ID = m.nextIDLocked()
		if i == 0 {
			rootID = e.ID
		} else {
			e.OriginalExpenseID = rootID
		}
		m.expenses[e.ID] = e
		out[i] = e
	}
	return out, nil
}

func (m *MemoryRepository) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.expenses[id]
	if !ok || m.deletedExp[id] {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	return e, nil
}

func (m *MemoryRepository) UpdateExpense(_ context.Context, e core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.expenses[e.ID]
	if !ok || m.deletedExp[e.ID] {
		return fmt.Errorf("expense %d: %w", e.ID, core.ErrNotFound)
	}
	cur.Description = e.Description
	cur.Amount = e.Amount
	cur.MainCategory = e.MainCategory
	cur.Subcategory = e.Subcategory
	cur.Date = e.Date
	cur.PaymentMethod = e.PaymentMethod
	cur.CardID = e.CardID
	m.expenses[e.ID] = cur
	return nil
}

func (m *MemoryRepository) SoftDeleteExpense(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok || m.deletedExp[id] {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	m.deletedExp[id] = true
	return nil
}

func (m *MemoryRepository) SoftDeleteGroup(_ context.Context, rootID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.expenses {
		if (id == rootID || e.OriginalExpenseID == rootID) && !m.deletedExp[id] {
			m.deletedExp[id] = true
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("installment group %d: %w", rootID, core.ErrNotFound)
	}
	return n, nil
}

func (m *MemoryRepository) ListExpenses(_ context.Context, userID string, profile core.Profile, year, month int) ([]core.Expense, error) {
	from := core.NewDate(year, month, 1)
	to := from.AddMonths(1)

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Expense
	for id, e := range m.expenses {
		if m.deletedExp[id] || e.UserID != userID || e.Profile != profile {
			continue
		}
		if e.Date.Before(from.Time) || !e.Date.Before(to.Time) {
			continue
		}
		out = append(out, e)
	}
	sortExpenses(out)
	return out, nil
}

func (m *MemoryRepository) ListCardExpenses(_ context.Context, cardID int64, period core.Period) ([]core.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Expense
	for id, e := range m.expenses {
		if m.deletedExp[id] || e.CardID != cardID {
			continue
		}
		if !period.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	sortExpenses(out)
	return out, nil
}

func sortExpenses(es []core.Expense) {
	sort.Slice(es, func(i, j int) bool {
		if !es[i].Date.Equal(es[j].Date.Time) {
			return es[i].Date.Before(es[j].Date.Time)
		}
		return es[i].ID < es[j].ID
	})
}

func (m *MemoryRepository) CreateIncome(_ context.Context, in core.Income) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in.ID = m.nextIDLocked()
	m.incomes[in.ID] = in
	return in.ID, nil
}

func (m *MemoryRepository) GetIncome(_ context.Context, id int64) (core.Income, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in, ok := m.incomes[id]
	if !ok || m.deletedInc[id] {
		return core.Income{}, fmt.Errorf("income %d: %w", id, core.ErrNotFound)
	}
	return in, nil
}

func (m *MemoryRepository) SoftDeleteIncome(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.incomes[id]; !ok || m.deletedInc[id] {
		return fmt.Errorf("income %d: %w", id, core.ErrNotFound)
	}
	m.deletedInc[id] = true
	return nil
}

func (m *MemoryRepository) ListIncomes(_ context.Context, userID string, profile core.Profile, year, month int) ([]core.Income, error) {
	from := core.NewDate(year, month, 1)
	to := from.AddMonths(1)

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Income
	for id, in := range m.incomes {
		if m.deletedInc[id] || in.UserID != userID || in.Profile != profile {
			continue
		}
		if in.Date.Before(from.Time) || !in.Date.Before(to.Time) {
			continue
		}
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) CreateCard(_ context.Context, c core.Card) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextIDLocked()
	c.CreatedAt = time.Now().UTC()
	m.cards[c.ID] = c
	return c.ID, nil
}

func (m *MemoryRepository) GetCard(_ context.Context, id int64) (core.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cards[id]
	if !ok {
		return core.Card{}, fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (m *MemoryRepository) ListCards(_ context.Context, userID string, profile core.Profile) ([]core.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Card
	for _, c := range m.cards {
		if c.UserID == userID && c.Profile == profile {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) UpdateCardTerms(_ context.Context, id int64, limit core.Money, closingDay, dueDay int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	c.Limit = limit
	c.ClosingDay = closingDay
	c.DueDay = dueDay
	m.cards[id] = c
	return nil
}

func (m *MemoryRepository) DeleteCard(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	for eid, e := range m.expenses {
		if e.CardID == id && !m.deletedExp[eid] {
			return fmt.Errorf("card %d: %w", id, core.ErrCardInUse)
		}
	}
	for _, bp := range m.billPayments {
		if bp.CardID == id {
			return fmt.Errorf("card %d: %w", id, core.ErrCardInUse)
		}
	}
	delete(m.cards, id)
	return nil
}

func (m *MemoryRepository) CreateBillPayment(_ context.Context, bp core.BillPayment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bp.ID = m.nextIDLocked()
	m.billPayments[bp.ID] = bp
	return bp.ID, nil
}

func (m *MemoryRepository) GetBillPayment(_ context.Context, id int64) (core.BillPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bp, ok := m.billPayments[id]
	if !ok {
		return core.BillPayment{}, fmt.Errorf("bill payment %d: %w", id, core.ErrNotFound)
	}
	return bp, nil
}

func (m *MemoryRepository) ListCardBillPayments(_ context.Context, cardID int64, period core.Period) ([]core.BillPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.BillPayment
	for _, bp := range m.billPayments {
		if bp.CardID != cardID || !period.Contains(bp.Date) {
			continue
		}
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) SumCardCharges(_ context.Context, cardID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cents int64
	for id, e := range m.expenses {
		if e.CardID == cardID && !m.deletedExp[id] {
			cents += e.Amount.Cents
		}
	}
	return cents, nil
}

func (m *MemoryRepository) SumCardPaid(_ context.Context, cardID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cents int64
	for _, bp := range m.billPayments {
		if bp.CardID != cardID {
			continue
		}
		if bp.Type == core.BillPaymentRegular || bp.Type == core.BillPaymentAnticipate {
			cents += bp.Amount.Cents
		}
	}
	return cents, nil
}

func (m *MemoryRepository) SumCardRefunded(_ context.Context, cardID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cents int64
	for _, bp := range m.billPayments {
		if bp.CardID == cardID && bp.Type == core.BillPaymentRefund {
			cents += bp.Amount.Cents
		}
	}
	return cents, nil
}

func (m *MemoryRepository) CreateReserveContribution(_ context.Context, rc core.ReserveContribution) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rc.ID = m.nextIDLocked()
	m.reserve[rc.ID] = rc
	return rc.ID, nil
}

func (m *MemoryRepository) GetReserveContribution(_ context.Context, id int64) (core.ReserveContribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rc, ok := m.reserve[id]
	if !ok {
		return core.ReserveContribution{}, fmt.Errorf("reserve contribution %d: %w", id, core.ErrNotFound)
	}
	return rc, nil
}

func (m *MemoryRepository) ListReserveContributions(_ context.Context, userID string, profile core.Profile) ([]core.ReserveContribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.ReserveContribution
	for _, rc := range m.reserve {
		if rc.UserID == userID && rc.Profile == profile {
			out = append(out, rc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) ReserveBalance(_ context.Context, userID string, profile core.Profile) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cents int64
	for _, rc := range m.reserve {
		if rc.UserID == userID && rc.Profile == profile {
			cents += rc.Amount.Cents
		}
	}
	return cents, nil
}
