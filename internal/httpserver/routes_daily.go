// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes two endpoints under /daily:
//   - GET  /daily     → today's date key and board dimensions
//   - POST /daily/new → start a session whose secret is today's word
//
// The daily secret is derived from date + salt (internal/daily), so every
// player gets the same word on the same UTC day. Guesses go through the
// regular /game endpoints.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/daily"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
)

// dailyInfoRes is returned by GET /daily.
type dailyInfoRes struct {
	Date       string `json:"date"`
	MaxGuesses int    `json:"maxGuesses"`
	WordLength int    `json:"wordLength"`
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Post("/new", func(w http.ResponseWriter, r *http.Request) {
			s.startSession(w, r, modeDaily)
		})
	})
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dailyInfoRes{
		Date:       daily.DateKey(s.opts.Now()),
		MaxGuesses: s.opts.MaxGuesses,
		WordLength: words.WordLength,
	})
}
