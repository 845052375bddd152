package http

import (
	"net/http"
	"strings"
	"time"

	"gastos/internal/core"
)

type contributionJSON struct {
	ID      int64  `json:"id"`
	Profile string `json:"profile"`
	Amount  string `json:"amount"`
	Date    string `json:"date"`
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
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

	rc, err := s.reserve.Contribute(r.Context(), core.ReserveContribution{
		UserID:  currentUser(r),
		Profile: profile,
		Amount:  core.Money{Cents: cents},
		Date:    date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contributionJSON{
		ID:      rc.ID,
		Profile: string(rc.Profile),
		Amount:  rc.Amount.String(),
		Date:    rc.Date.String(),
	})
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	profile, err := profileFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	balance, err := s.reserve.Balance(r.Context(), currentUser(r), profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	contributions, err := s.reserve.List(r.Context(), currentUser(r), profile)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]contributionJSON, len(contributions))
	for i, rc := range contributions {
		out[i] = contributionJSON{
			ID:      rc.ID,
			Profile: string(rc.Profile),
			Amount:  rc.Amount.String(),
			Date:    rc.Date.String(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance":       balance.String(),
		"contributions": out,
	})
}
