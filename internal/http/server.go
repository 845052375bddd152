// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gastos/internal/bible"
	"gastos/internal/cache"
	"gastos/internal/category"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/trace"
	"gastos/internal/services"
)

type Server struct {
	http.Server

	ledger  *services.LedgerService
	cards   *services.CardService
	reserve *services.ReserveService
	locale  category.Locale

	verses     *bible.Client
	verseCache *cache.LRUCache[bible.Verse]

	tracer  *trace.Middleware
	limiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
// A nil verses client disables the /verse endpoint.
func NewServer(addr string, ledger *services.LedgerService, cards *services.CardService, reserve *services.ReserveService, locale category.Locale, verses *bible.Client, requestsPerMinute int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledger:     ledger,
		cards:      cards,
		reserve:    reserve,
		locale:     locale,
		verses:     verses,
		verseCache: cache.NewLRUCache[bible.Verse](8, 24*time.Hour),
		tracer:     trace.NewMiddleware(),
		limiter:    ratelimit.NewLimiter(requestsPerMinute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /categories", s.handleCategories)
	mux.HandleFunc("GET /verse", s.handleVerse)

	mux.HandleFunc("POST /expenses", withUser(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses", withUser(s.handleListExpenses))
	mux.HandleFunc("PUT /expenses/{id}", withUser(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", withUser(s.handleDeleteExpense))

	mux.HandleFunc("POST /incomes", withUser(s.handleCreateIncome))
	mux.HandleFunc("GET /incomes", withUser(s.handleListIncomes))
	mux.HandleFunc("DELETE /incomes/{id}", withUser(s.handleDeleteIncome))

	mux.HandleFunc("POST /cards", withUser(s.handleCreateCard))
	mux.HandleFunc("GET /cards", withUser(s.handleListCards))
	mux.HandleFunc("PATCH /cards/{id}", withUser(s.handleUpdateCardTerms))
	mux.HandleFunc("DELETE /cards/{id}", withUser(s.handleDeleteCard))
	mux.HandleFunc("GET /cards/{id}/statement", withUser(s.handleStatement))
	mux.HandleFunc("POST /cards/{id}/payments", withUser(s.handleRecordBillPayment))

	mux.HandleFunc("POST /reserve", withUser(s.handleContribute))
	mux.HandleFunc("GET /reserve", withUser(s.handleReserve))

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Wrap(s.withRateLimit(mux)),
	}
	return s
}

// withRateLimit rejects clients past the per-minute write budget. Reads are
// not limited.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !s.limiter.Allow(trace.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
