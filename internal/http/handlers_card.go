package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
)

type cardJSON struct {
	ID         int64  `json:"id"`
	Profile    string `json:"profile"`
	Name       string `json:"name"`
	Limit      string `json:"limit"`
	ClosingDay int    `json:"closing_day"`
	DueDay     int    `json:"due_day"`
}

func toCardJSON(c core.Card) cardJSON {
	return cardJSON{
		ID:         c.ID,
		Profile:    string(c.Profile),
		Name:       c.Name,
		Limit:      c.Limit.String(),
		ClosingDay: c.ClosingDay,
		DueDay:     c.DueDay,
	}
}

type billPaymentJSON struct {
	ID      int64  `json:"id"`
	CardID  int64  `json:"card_id"`
	Type    string `json:"type"`
	Amount  string `json:"amount"`
	Date    string `json:"date"`
	Profile string `json:"profile"`
}

func toBillPaymentJSON(bp core.BillPayment) billPaymentJSON {
	return billPaymentJSON{
		ID:      bp.ID,
		CardID:  bp.CardID,
		Type:    string(bp.Type),
		Amount:  bp.Amount.String(),
		Date:    bp.Date.String(),
		Profile: string(bp.Profile),
	}
}

type transactionJSON struct {
	Kind        string `json:"kind"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Amount      string `json:"amount"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	switch t.Kind {
	case core.TransactionExpense:
		return transactionJSON{
			Kind:        "expense",
			Date:        t.Expense.Date.String(),
			Description: t.Expense.Description,
			Amount:      t.Expense.Amount.String(),
		}
	default:
		return transactionJSON{
			Kind:   "bill_payment",
			Date:   t.BillPayment.Date.String(),
			Type:   string(t.BillPayment.Type),
			Amount: t.BillPayment.Amount.String(),
		}
	}
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed form"})
		return
	}

	profile, err := profileFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limitCents, err := core.ParseDecimalToCents(r.Form.Get("limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	closingDay, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("closing_day")))
	if err != nil {
		writeError(w, r, core.ErrInvalidClosingDay)
		return
	}
	dueDay, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("due_day")))
	if err != nil {
		writeError(w, r, core.ErrInvalidDueDay)
		return
	}

	card, err := s.cards.CreateCard(r.Context(), core.Card{
		UserID:     currentUser(r),
		Profile:    profile,
		Name:       sanitizeInput(r.Form.Get("name")),
		Limit:      core.Money{Cents: limitCents},
		ClosingDay: closingDay,
		DueDay:     dueDay,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardJSON(card))
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	profile, err := profileFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cards, err := s.cards.ListCards(r.Context(), currentUser(r), profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]cardJSON, len(cards))
	for i, c := range cards {
		out[i] = toCardJSON(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": out})
}

func (s *Server) handleUpdateCardTerms(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, core.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed form"})
		return
	}

	limitCents, err := core.ParseDecimalToCents(r.Form.Get("limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	closingDay, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("closing_day")))
	if err != nil {
		writeError(w, r, core.ErrInvalidClosingDay)
		return
	}
	dueDay, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("due_day")))
	if err != nil {
		writeError(w, r, core.ErrInvalidDueDay)
		return
	}

	if err := s.cards.UpdateCardTerms(r.Context(), currentUser(r), id, core.Money{Cents: limitCents}, closingDay, dueDay); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, core.ErrNotFound)
		return
	}
	if err := s.cards.DeleteCard(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, core.ErrNotFound)
		return
	}

	ref := core.Date{Time: time.Now()}
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		if ref, err = core.ParseDate(v); err != nil {
			writeError(w, r, err)
			return
		}
	}

	st, err := s.cards.Statement(r.Context(), currentUser(r), id, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}

	activity := make([]transactionJSON, len(st.Activity))
	for i, t := range st.Activity {
		activity[i] = toTransactionJSON(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"card":         toCardJSON(st.Card),
		"period_start": st.Period.Start.String(),
		"period_end":   st.Period.End.String(),
		"total":        st.Total.String(),
		"paid":         st.Paid.String(),
		"outstanding":  st.Outstanding.String(),
		"activity":     activity,
	})
}

func (s *Server) handleRecordBillPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, core.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed form"})
		return
	}

	profile, err := profileFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	billType, err := core.ParseBillTransactionType(r.Form.Get("type"))
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

	bp, err := s.cards.RecordBillPayment(r.Context(), core.BillPayment{
		UserID:  currentUser(r),
		Profile: profile,
		CardID:  id,
		Type:    billType,
		Amount:  core.Money{Cents: cents},
		Date:    date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillPaymentJSON(bp))
}
