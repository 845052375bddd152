package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
)

type expenseJSON struct {
	ID                 int64  `json:"id"`
	Profile            string `json:"profile"`
	Description        string `json:"description"`
	Amount             string `json:"amount"`
	MainCategory       string `json:"main_category"`
	Subcategory        string `json:"subcategory"`
	Date               string `json:"date"`
	PaymentMethod      string `json:"payment_method"`
	CardID             int64  `json:"card_id,omitempty"`
	Installments       int    `json:"installments"`
	CurrentInstallment int    `json:"current_installment"`
	OriginalExpenseID  int64  `json:"original_expense_id,omitempty"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:                 e.ID,
		Profile:            string(e.Profile),
		Description:        e.Description,
		Amount:             e.Amount.String(),
		MainCategory:       e.MainCategory,
		Subcategory:        e.Subcategory,
		Date:               e.Date.String(),
		PaymentMethod:      string(e.PaymentMethod),
		CardID:             e.CardID,
		Installments:       e.Installments,
		CurrentInstallment: e.CurrentInstallment,
		OriginalExpenseID:  e.OriginalExpenseID,
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed form"})
		return
	}

	profile, err := profileFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	date := core.Date{Time: time.Now()}
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		if date, err = core.ParseDate(v); err != nil {
			writeError(w, r, err)
			return
		}
	}

	method, err := core.ParsePaymentMethod(r.Form.Get("payment_method"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	installments := 1
	if v := strings.TrimSpace(r.Form.Get("installments")); v != "" {
		if installments, err = strconv.Atoi(v); err != nil {
			writeError(w, r, core.ErrInvalidInstallments)
			return
		}
	}

	var cardID int64
	if v := strings.TrimSpace(r.Form.Get("card_id")); v != "" {
		if cardID, err = strconv.ParseInt(v, 10, 64); err != nil {
			writeError(w, r, core.ErrMissingCard)
			return
		}
	}

	group, err := s.ledger.CreatePurchase(r.Context(), core.Purchase{
		UserID:        currentUser(r),
		Profile:       profile,
		Description:   sanitizeInput(r.Form.Get("description")),
		Total:         core.Money{Cents: cents},
		Installments:  installments,
		FirstDate:     date,
		MainCategory:  sanitizeInput(r.Form.Get("main_category")),
		Subcategory:   sanitizeInput(r.Form.Get("subcategory")),
		PaymentMethod: method,
		CardID:        cardID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]expenseJSON, len(group))
	for i, e := range group {
		out[i] = toExpenseJSON(e)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"expenses": out})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	profile, err := profileFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, month := parseYearMonth(r)

	expenses, err := s.ledger.ListExpenses(r.Context(), currentUser(r), profile, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]expenseJSON, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseJSON(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, core.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed form"})
		return
	}

	current, err := s.ledger.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if current.UserID != currentUser(r) {
		writeError(w, r, core.ErrNotFound)
		return
	}

	edit := current
	if v := r.Form.Get("description"); v != "" {
		edit.Description = sanitizeInput(v)
	}
	if v := strings.TrimSpace(r.Form.Get("amount")); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		edit.Amount = core.Money{Cents: cents}
	}
	if v := r.Form.Get("main_category"); v != "" {
		edit.MainCategory = sanitizeInput(v)
	}
	if v := r.Form.Get("subcategory"); v != "" {
		edit.Subcategory = sanitizeInput(v)
	}
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		if edit.Date, err = core.ParseDate(v); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if v := strings.TrimSpace(r.Form.Get("payment_method")); v != "" {
		if edit.PaymentMethod, err = core.ParsePaymentMethod(v); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if v := strings.TrimSpace(r.Form.Get("card_id")); v != "" {
		if edit.CardID, err = strconv.ParseInt(v, 10, 64); err != nil {
			writeError(w, r, core.ErrMissingCard)
			return
		}
	}

	if err := s.ledger.UpdateExpense(r.Context(), edit); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.ledger.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, core.ErrNotFound)
		return
	}

	current, err := s.ledger.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if current.UserID != currentUser(r) {
		writeError(w, r, core.ErrNotFound)
		return
	}

	if err := s.ledger.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
