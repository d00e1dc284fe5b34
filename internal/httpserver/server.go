// internal/httpserver/server.go
//
// HTTP presentation layer for the game engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health", "/words/stats".
//   - Game endpoints: POST /game/new, POST /game/guess, GET /game/{id},
//     POST /game/{id}/restart.
//   - Daily endpoints mounted under /daily (routes_daily.go).
//
// Notes:
//   - Every game lives in its own session; the session token is a signed JWT
//     whose subject is the game ID, so a client can only touch its own game.
//   - Validation failures come back as distinguishable error codes and never
//     consume an attempt.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/daily"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/store"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
)

// Options configures a Server. Zero values fall back to sensible defaults.
type Options struct {
	MaxGuesses     int
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	JWTSecret      string
	ClientOrigin   string
	DailySalt      string

	// Source overrides secret selection for normal games (tests).
	Source words.Source
	// Now overrides the clock (tests).
	Now func() time.Time
}

func (o *Options) defaults() {
	if o.MaxGuesses <= 0 {
		o.MaxGuesses = game.DefaultMaxGuesses
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 24 * time.Hour
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.JWTSecret == "" {
		o.JWTSecret = "dev_secret_change_me"
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Server bundles router, session store and vocabulary.
type Server struct {
	r     *chi.Mux
	store store.Store
	vocab *words.Vocabulary
	opts  Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, vocab *words.Vocabulary, opts Options) *Server {
	opts.defaults()
	s := &Server{r: chi.NewRouter(), store: st, vocab: vocab, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))        // request-scoped logger
	s.r.Use(accessLog())                        // one line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordle-core",
			"endpoints": []string{"/health", "/words/stats", "POST /game/new", "POST /game/guess", "GET /game/{id}", "POST /game/{id}/restart", "/daily"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/words/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"words": s.vocab.Len(), "wordLength": words.WordLength})
	})

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleSnapshot)
		r.Post("/game/{id}/restart", s.handleRestart)
	})

	// --- daily ---
	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", sessionHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request.
func accessLog() func(http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		lvl := zerolog.InfoLevel
		if status >= http.StatusInternalServerError {
			lvl = zerolog.ErrorLevel
		}
		hlog.FromRequest(r).WithLevel(lvl).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("requestId", chimw.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

const (
	modeNormal = "normal"
	modeDaily  = "daily"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "normal" (default) | "daily"
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	Token      string `json:"token"`
	Mode       string `json:"mode"`
	MaxGuesses int    `json:"maxGuesses"`
	WordLength int    `json:"wordLength"`
	Date       string `json:"date,omitempty"`
}

// handleNewGame creates a session and starts its first round.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body means a normal game
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = modeNormal
	}
	if req.Mode != modeNormal && req.Mode != modeDaily {
		writeError(w, http.StatusBadRequest, "bad_mode", "mode must be normal or daily")
		return
	}
	s.startSession(w, r, req.Mode)
}

// startSession builds a game for mode, starts a round, registers it and
// issues the session token.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, mode string) {
	src := s.opts.Source
	if mode == modeDaily {
		src = daily.Source(s.opts.Now, s.opts.DailySalt)
	}
	g := game.New(s.vocab, game.Options{MaxGuesses: s.opts.MaxGuesses, Source: src})
	if err := g.StartRound(); err != nil {
		s.writeGameError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed", "could not save game")
		return
	}
	tok, err := signSession(s.opts.JWTSecret, g.ID, s.opts.Now(), s.opts.SessionTTL)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "sign_failed", "could not sign session")
		return
	}

	res := newGameRes{
		GameID:     g.ID,
		Token:      tok,
		Mode:       mode,
		MaxGuesses: g.MaxGuesses(),
		WordLength: words.WordLength,
	}
	if mode == modeDaily {
		res.Date = daily.DateKey(s.opts.Now())
	}
	hlog.FromRequest(r).Info().Str("gameId", g.ID).Str("mode", mode).Msg("game started")
	writeJSON(w, http.StatusOK, res)
}

// guessReq payload for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// handleGuess applies a guess to the caller's game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	g, ok := s.sessionGame(w, r, req.GameID)
	if !ok {
		return
	}
	res, err := g.SubmitGuess(req.Guess)
	if err != nil {
		s.writeGameError(w, r, err, g)
		return
	}
	ev := hlog.FromRequest(r).Info()
	if !res.State.Over() {
		ev = hlog.FromRequest(r).Debug()
	}
	ev.Str("gameId", g.ID).Int("attempt", res.Attempt).Str("state", string(res.State)).Msg("guess accepted")
	writeJSON(w, http.StatusOK, res)
}

// handleSnapshot returns the full board for the caller's game.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	g, ok := s.sessionGame(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// handleRestart starts a new round in the caller's session.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	g, ok := s.sessionGame(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := g.StartRound(); err != nil {
		s.writeGameError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("gameId", g.ID).Msg("round restarted")
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// sessionGame resolves the game owned by the request's session token.
// An explicit id must match the token subject. Writes the error response
// itself and reports false on failure.
func (s *Server) sessionGame(w http.ResponseWriter, r *http.Request, id string) (*game.Game, bool) {
	sid := sessionID(r.Context())
	if id == "" {
		id = sid
	}
	if id != sid {
		writeError(w, http.StatusForbidden, "forbidden", "token does not match game")
		return nil, false
	}
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "game not found")
			return nil, false
		}
		hlog.FromRequest(r).Error().Err(err).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed", "could not load game")
		return nil, false
	}
	return g, true
}

// --------------------------------- errors ----------------------------------

// gameErrors maps engine errors to HTTP status and a machine-readable code.
var gameErrors = []struct {
	err    error
	status int
	code   string
}{
	{game.ErrInvalidLength, http.StatusUnprocessableEntity, "invalid_length"},
	{game.ErrInvalidCharacters, http.StatusUnprocessableEntity, "invalid_characters"},
	{game.ErrNotInVocabulary, http.StatusUnprocessableEntity, "not_in_vocabulary"},
	{game.ErrRoundAlreadyOver, http.StatusConflict, "round_over"},
	{game.ErrNoRound, http.StatusConflict, "no_round"},
	{words.ErrEmptyVocabulary, http.StatusServiceUnavailable, "empty_vocabulary"},
}

type errorRes struct {
	Error    string         `json:"error"`
	Message  string         `json:"message"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

// writeGameError classifies err. When g is given and the round is over the
// snapshot is attached so the client can re-show the end state.
func (s *Server) writeGameError(w http.ResponseWriter, r *http.Request, err error, g ...*game.Game) {
	for _, ge := range gameErrors {
		if !errors.Is(err, ge.err) {
			continue
		}
		res := errorRes{Error: ge.code, Message: err.Error()}
		if ge.err == game.ErrRoundAlreadyOver && len(g) > 0 {
			snap := g[0].Snapshot()
			res.Snapshot = &snap
		}
		if ge.status >= http.StatusInternalServerError {
			hlog.FromRequest(r).Error().Err(err).Msg("game unavailable")
		}
		writeJSON(w, ge.status, res)
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("unexpected game error")
	writeError(w, http.StatusInternalServerError, "internal", "internal error")
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
