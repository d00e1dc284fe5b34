package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/daily"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/store"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
)

var testDay = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, vocab *words.Vocabulary) *Server {
	t.Helper()
	if vocab == nil {
		// index 0 is the secret for every normal game
		vocab = words.New([]string{"erase", "eerie", "crane", "slate", "speed", "abbey", "kebab", "geese"})
	}
	return New(store.NewMemoryStore(time.Hour), vocab, Options{
		JWTSecret: "test-secret",
		Source:    words.FixedSource(0),
		Now:       func() time.Time { return testDay },
		DailySalt: "salt",
	})
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func newGame(t *testing.T, s *Server) newGameRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/game/new", "", map[string]string{"mode": "normal"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[newGameRes](t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestWordStats(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/words/stats", "", nil)
	assert.JSONEq(t, `{"words":8,"wordLength":5}`, rec.Body.String())
}

func TestNewGame(t *testing.T) {
	s := newTestServer(t, nil)
	res := newGame(t, s)
	assert.NotEmpty(t, res.GameID)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "normal", res.Mode)
	assert.Equal(t, game.DefaultMaxGuesses, res.MaxGuesses)
	assert.Equal(t, words.WordLength, res.WordLength)
}

func TestNewGame_BadMode(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/game/new", "", map[string]string{"mode": "hard"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewGame_EmptyVocabulary(t *testing.T) {
	s := newTestServer(t, words.New(nil))
	rec := do(t, s, http.MethodPost, "/game/new", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "empty_vocabulary", decode[errorRes](t, rec).Error)
}

func TestGuess_Flow(t *testing.T) {
	s := newTestServer(t, nil)
	g := newGame(t, s)

	rec := do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "eerie"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[game.GuessResult](t, rec)
	assert.Equal(t, []game.Feedback{game.FeedbackCorrect, game.FeedbackAbsent, game.FeedbackPresent, game.FeedbackAbsent, game.FeedbackCorrect}, res.Feedback)
	assert.Equal(t, game.StateInProgress, res.State)
	assert.Equal(t, game.FeedbackPresent, res.Keyboard["r"])

	rec = do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "ERASE"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, game.StateWon, decode[game.GuessResult](t, rec).State)

	rec = do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "crane"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	over := decode[errorRes](t, rec)
	assert.Equal(t, "round_over", over.Error)
	require.NotNil(t, over.Snapshot)
	assert.Equal(t, game.StateWon, over.Snapshot.State)
	assert.Len(t, over.Snapshot.Rows, 2)
}

func TestGuess_ValidationErrors(t *testing.T) {
	s := newTestServer(t, nil)
	g := newGame(t, s)

	cases := map[string]string{
		"cran":  "invalid_length",
		"cr4ne": "invalid_characters",
		"zzzzz": "not_in_vocabulary",
	}
	for guess, code := range cases {
		rec := do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: guess})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, guess)
		assert.Equal(t, code, decode[errorRes](t, rec).Error, guess)
	}

	rec := do(t, s, http.MethodGet, "/game/"+g.GameID, g.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[game.Snapshot](t, rec)
	assert.Empty(t, snap.Rows)
	assert.Equal(t, game.StateInProgress, snap.State)
}

func TestGuess_LossRevealsAnswer(t *testing.T) {
	s := newTestServer(t, nil)
	g := newGame(t, s)

	var res game.GuessResult
	for _, w := range []string{"crane", "slate", "speed", "abbey", "kebab", "geese"} {
		rec := do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: w})
		require.Equal(t, http.StatusOK, rec.Code)
		res = decode[game.GuessResult](t, rec)
	}
	assert.Equal(t, game.StateLost, res.State)
	assert.Equal(t, "erase", res.Answer)
}

func TestSession_Isolation(t *testing.T) {
	s := newTestServer(t, nil)
	a, b := newGame(t, s), newGame(t, s)

	// a's token cannot drive b's game
	rec := do(t, s, http.MethodPost, "/game/guess", a.Token, guessReq{GameID: b.GameID, Guess: "crane"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(t, s, http.MethodGet, "/game/"+b.GameID, a.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// gameId may be omitted; the token decides
	rec = do(t, s, http.MethodPost, "/game/guess", a.Token, guessReq{Guess: "crane"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/game/"+b.GameID, b.Token, nil)
	assert.Empty(t, decode[game.Snapshot](t, rec).Rows)
}

func TestSession_Auth(t *testing.T) {
	s := newTestServer(t, nil)
	g := newGame(t, s)

	rec := do(t, s, http.MethodPost, "/game/guess", "", guessReq{GameID: g.GameID, Guess: "crane"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/guess", g.Token+"x", guessReq{GameID: g.GameID, Guess: "crane"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, err := signSession("other-secret", g.GameID, testDay, time.Hour)
	require.NoError(t, err)
	rec = do(t, s, http.MethodPost, "/game/guess", forged, guessReq{GameID: g.GameID, Guess: "crane"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := signSession("test-secret", g.GameID, testDay.Add(-48*time.Hour), time.Hour)
	require.NoError(t, err)
	rec = do(t, s, http.MethodPost, "/game/guess", expired, guessReq{GameID: g.GameID, Guess: "crane"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_TokenSlidesWithActivity(t *testing.T) {
	now := testDay
	s := New(store.NewMemoryStore(0), words.New([]string{"erase", "crane", "slate"}), Options{
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
		Source:     words.FixedSource(0),
		Now:        func() time.Time { return now },
	})
	g := newGame(t, s)

	now = testDay.Add(50 * time.Minute)
	rec := do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{Guess: "crane"})
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := rec.Header().Get(sessionHeader)
	require.NotEmpty(t, fresh)

	// the original token has expired, the refreshed one has not
	now = testDay.Add(100 * time.Minute)
	rec = do(t, s, http.MethodGet, "/game/"+g.GameID, g.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, s, http.MethodPost, "/game/"+g.GameID+"/restart", fresh, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(sessionHeader))
}

func TestSession_UnknownGame(t *testing.T) {
	s := newTestServer(t, nil)
	tok, err := signSession("test-secret", "missing", testDay, time.Hour)
	require.NoError(t, err)
	rec := do(t, s, http.MethodGet, "/game/missing", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRestart(t *testing.T) {
	s := newTestServer(t, nil)
	g := newGame(t, s)

	rec := do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{Guess: "erase"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/"+g.GameID+"/restart", g.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[game.Snapshot](t, rec)
	assert.Equal(t, game.StateInProgress, snap.State)
	assert.Empty(t, snap.Rows)
	assert.Equal(t, g.GameID, snap.ID)
}

func TestDaily(t *testing.T) {
	vocab := words.New([]string{"erase", "eerie", "crane", "slate", "speed"})
	s := newTestServer(t, vocab)

	rec := do(t, s, http.MethodGet, "/daily", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-01", decode[dailyInfoRes](t, rec).Date)

	rec = do(t, s, http.MethodPost, "/daily/new", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	g := decode[newGameRes](t, rec)
	assert.Equal(t, "daily", g.Mode)
	assert.Equal(t, "2024-03-01", g.Date)

	secret := vocab.At(daily.WordIndex(testDay, "salt", vocab.Len()))
	rec = do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{Guess: secret})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, game.StateWon, decode[game.GuessResult](t, rec).State)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","path":"/nope"}`, rec.Body.String())
}
