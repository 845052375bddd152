package http

import (
	"net/http"
	"time"

	"gastos/internal/category"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	profile, err := profileFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	locale := s.locale
	if v := r.URL.Query().Get("locale"); v != "" {
		if locale, err = category.ParseLocale(v); err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile":    string(profile),
		"locale":     string(locale),
		"categories": category.Lookup(profile, locale),
	})
}

// handleVerse serves the verse of the day, cached until midnight rolls the
// key over.
func (s *Server) handleVerse(w http.ResponseWriter, r *http.Request) {
	if s.verses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "verse service not configured"})
		return
	}

	today := time.Now()
	key := today.Format("2006-01-02")
	if v, ok := s.verseCache.Get(key); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	v, err := s.verses.VerseOfDay(r.Context(), today)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "verse service unavailable"})
		return
	}
	s.verseCache.Set(key, v)
	writeJSON(w, http.StatusOK, v)
}
