package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"gastos/internal/category"
	"gastos/internal/services"
	"gastos/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo := storage.NewMemoryRepository()
	ledger := services.NewLedgerService(repo, nil)
	cards := services.NewCardService(repo, nil, 0)
	reserve := services.NewReserveService(repo, nil)
	s := NewServer(":0", ledger, cards, reserve, category.LocaleEN, nil, 1000)
	t.Cleanup(func() { s.limiter.Stop() })
	return s
}

func doForm(t *testing.T, s *Server, method, path string, form url.Values, user string) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestWriteRequiresUser(t *testing.T) {
	s := newTestServer(t)

	rec := doForm(t, s, http.MethodPost, "/expenses", url.Values{"amount": {"10.00"}}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHealthEndpointsArePublic(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doForm(t, s, http.MethodGet, path, nil, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestExpenseCreateAndList(t *testing.T) {
	s := newTestServer(t)

	rec := doForm(t, s, http.MethodPost, "/expenses", url.Values{
		"profile":        {"personal"},
		"description":    {"groceries"},
		"amount":         {"42,50"},
		"main_category":  {"Food"},
		"subcategory":    {"Groceries"},
		"date":           {"2024-03-10"},
		"payment_method": {"debit"},
	}, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doForm(t, s, http.MethodGet, "/expenses?profile=personal&year=2024&month=3", nil, "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Expenses []expenseJSON `json:"expenses"`
	}
	decode(t, rec, &out)
	if len(out.Expenses) != 1 {
		t.Fatalf("listed %d expenses, want 1", len(out.Expenses))
	}
	if out.Expenses[0].Amount != "42.50" {
		t.Errorf("amount = %q, want 42.50", out.Expenses[0].Amount)
	}

	// Another user sees nothing.
	rec = doForm(t, s, http.MethodGet, "/expenses?profile=personal&year=2024&month=3", nil, "u2")
	decode(t, rec, &out)
	if len(out.Expenses) != 0 {
		t.Errorf("cross-user list returned %d expenses", len(out.Expenses))
	}
}

func TestInstallmentPurchaseOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := doForm(t, s, http.MethodPost, "/cards", url.Values{
		"profile":     {"personal"},
		"name":        {"Visa"},
		"limit":       {"5000.00"},
		"closing_day": {"10"},
		"due_day":     {"20"},
	}, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create card status = %d: %s", rec.Code, rec.Body.String())
	}
	var card cardJSON
	decode(t, rec, &card)

	rec = doForm(t, s, http.MethodPost, "/expenses", url.Values{
		"profile":        {"personal"},
		"description":    {"tv"},
		"amount":         {"100.00"},
		"main_category":  {"Home"},
		"subcategory":    {"Electronics"},
		"date":           {"2024-03-05"},
		"payment_method": {"credit"},
		"card_id":        {jsonID(card.ID)},
		"installments":   {"3"},
	}, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create purchase status = %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Expenses []expenseJSON `json:"expenses"`
	}
	decode(t, rec, &created)
	if len(created.Expenses) != 3 {
		t.Fatalf("created %d records, want 3", len(created.Expenses))
	}
	if created.Expenses[0].Description != "tv (1/3)" {
		t.Errorf("description = %q", created.Expenses[0].Description)
	}

	// Deleting a sibling removes the whole group.
	rec = doForm(t, s, http.MethodDelete, "/expenses/"+jsonID(created.Expenses[1].ID), nil, "u1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doForm(t, s, http.MethodGet, "/expenses?profile=personal&year=2024&month=3", nil, "u1")
	var after struct {
		Expenses []expenseJSON `json:"expenses"`
	}
	decode(t, rec, &after)
	if len(after.Expenses) != 0 {
		t.Errorf("group survived delete: %+v", after.Expenses)
	}
}

func TestStatementAndPaymentFlow(t *testing.T) {
	s := newTestServer(t)

	rec := doForm(t, s, http.MethodPost, "/cards", url.Values{
		"profile":     {"personal"},
		"name":        {"Visa"},
		"limit":       {"5000.00"},
		"closing_day": {"10"},
		"due_day":     {"20"},
	}, "u1")
	var card cardJSON
	decode(t, rec, &card)

	rec = doForm(t, s, http.MethodPost, "/expenses", url.Values{
		"profile":        {"personal"},
		"description":    {"dinner"},
		"amount":         {"200.00"},
		"main_category":  {"Food"},
		"subcategory":    {"Dining"},
		"date":           {"2024-01-15"},
		"payment_method": {"credit"},
		"card_id":        {jsonID(card.ID)},
	}, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("charge status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doForm(t, s, http.MethodGet, "/cards/"+jsonID(card.ID)+"/statement?date=2024-03-05", nil, "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("statement status = %d: %s", rec.Code, rec.Body.String())
	}
	var st struct {
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
		Total       string `json:"total"`
		Outstanding string `json:"outstanding"`
	}
	decode(t, rec, &st)
	if st.PeriodStart != "2024-01-10" || st.PeriodEnd != "2024-02-10" {
		t.Errorf("period = (%s, %s]", st.PeriodStart, st.PeriodEnd)
	}
	if st.Total != "200.00" {
		t.Errorf("total = %q, want 200.00", st.Total)
	}

	// Overpayment is rejected, exact payment accepted.
	rec = doForm(t, s, http.MethodPost, "/cards/"+jsonID(card.ID)+"/payments", url.Values{
		"profile": {"personal"},
		"type":    {"payment"},
		"amount":  {"250.00"},
		"date":    {"2024-03-05"},
	}, "u1")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overpayment status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doForm(t, s, http.MethodPost, "/cards/"+jsonID(card.ID)+"/payments", url.Values{
		"profile": {"personal"},
		"type":    {"payment"},
		"amount":  {"200.00"},
		"date":    {"2024-03-05"},
	}, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("payment status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReserveEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doForm(t, s, http.MethodPost, "/reserve", url.Values{
		"profile": {"home"},
		"amount":  {"150.00"},
		"date":    {"2024-03-01"},
	}, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("contribute status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doForm(t, s, http.MethodPost, "/reserve", url.Values{
		"profile": {"home"},
		"amount":  {"0"},
	}, "u1")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero contribution status = %d", rec.Code)
	}

	rec = doForm(t, s, http.MethodGet, "/reserve?profile=home", nil, "u1")
	var out struct {
		Balance       string             `json:"balance"`
		Contributions []contributionJSON `json:"contributions"`
	}
	decode(t, rec, &out)
	if out.Balance != "150.00" {
		t.Errorf("balance = %q, want 150.00", out.Balance)
	}
	if len(out.Contributions) != 1 {
		t.Errorf("contributions = %d, want 1", len(out.Contributions))
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doForm(t, s, http.MethodGet, "/categories?profile=business&locale=pt", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("categories status = %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Profile    string              `json:"profile"`
		Locale     string              `json:"locale"`
		Categories map[string][]string `json:"categories"`
	}
	decode(t, rec, &out)
	if out.Locale != "pt" || len(out.Categories) == 0 {
		t.Errorf("unexpected taxonomy response: %+v", out)
	}
}

func TestInvalidProfileRejected(t *testing.T) {
	s := newTestServer(t)

	rec := doForm(t, s, http.MethodGet, "/expenses?profile=galactic", nil, "u1")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
