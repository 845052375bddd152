package http

import (
	"net/http"
	"strings"
	"time"

	"gastos/internal/core"
)

type incomeJSON struct {
	ID           int64  `json:"id"`
	Profile      string `json:"profile"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	MainCategory string `json:"main_category"`
	Subcategory  string `json:"subcategory"`
	Date         string `json:"date"`
}

func toIncomeJSON(in core.Income) incomeJSON {
	return incomeJSON{
		ID:           in.ID,
		Profile:      string(in.Profile),
		Description:  in.Description,
		Amount:       in.Amount.String(),
		MainCategory: in.MainCategory,
		Subcategory:  in.Subcategory,
		Date:         in.Date.String(),
	}
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
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

	in, err := s.ledger.CreateIncome(r.Context(), core.Income{
		UserID:       currentUser(r),
		Profile:      profile,
		Description:  sanitizeInput(r.Form.Get("description")),
		Amount:       core.Money{Cents: cents},
		MainCategory: sanitizeInput(r.Form.Get("main_category")),
		Subcategory:  sanitizeInput(r.Form.Get("subcategory")),
		Date:         date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeJSON(in))
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	profile, err := profileFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, month := parseYearMonth(r)

	incomes, err := s.ledger.ListIncomes(r.Context(), currentUser(r), profile, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]incomeJSON, len(incomes))
	for i, in := range incomes {
		out[i] = toIncomeJSON(in)
	}
	writeJSON(w, http.StatusOK, map[string]any{"incomes": out})
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, core.ErrNotFound)
		return
	}
	if err := s.ledger.DeleteOwnedIncome(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
