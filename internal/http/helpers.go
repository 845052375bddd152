package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses and emits a JSON body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeJSON(w, status, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrCardInUse):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidProfile),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyMainCategory),
		errors.Is(err, core.ErrEmptySubcategory),
		errors.Is(err, core.ErrInvalidInstallments),
		errors.Is(err, core.ErrInvalidPayment),
		errors.Is(err, core.ErrInvalidBillType),
		errors.Is(err, core.ErrInvalidClosingDay),
		errors.Is(err, core.ErrInvalidDueDay),
		errors.Is(err, core.ErrEmptyCardName),
		errors.Is(err, core.ErrMissingCard),
		errors.Is(err, core.ErrPaymentTooLarge),
		errors.Is(err, core.ErrRefundExceedsPaid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// profileFrom parses the mandatory profile parameter from query or form.
func profileFrom(r *http.Request) (core.Profile, error) {
	v := r.FormValue("profile")
	if v == "" {
		v = r.URL.Query().Get("profile")
	}
	return core.ParseProfile(v)
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	return year, month
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
