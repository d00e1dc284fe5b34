// internal/game/engine.go
//
// Core game engine for a single session.
// Responsibilities:
//   - Start rounds with a secret drawn from the vocabulary.
//   - Validate and apply guesses (length, alphabetic, vocabulary).
//   - Score guesses using the two-pass algorithm.
//   - Track the keyboard and the in_progress → won/lost transitions.
//
// A Game is safe for concurrent use; every mutating call holds g.mu for
// its full duration so scoring and state updates are atomic.

package game

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
)

// DefaultMaxGuesses is the number of attempts per round.
const DefaultMaxGuesses = 6

var (
	ErrRoundAlreadyOver  = errors.New("round already over")
	ErrNoRound           = errors.New("no round started")
	ErrInvalidLength     = fmt.Errorf("guess must be %d letters", words.WordLength)
	ErrInvalidCharacters = errors.New("guess must contain only letters")
	ErrNotInVocabulary   = errors.New("not in word list")
	// ErrEmptyVocabulary is words.ErrEmptyVocabulary, re-exported for callers
	// that only import this package.
	ErrEmptyVocabulary = words.ErrEmptyVocabulary
)

// Options configures a Game.
type Options struct {
	MaxGuesses int          // defaults to DefaultMaxGuesses
	Source     words.Source // defaults to words.CryptoSource
}

// Game holds the state of one session: its current round, guess record
// and keyboard.
type Game struct {
	ID string

	mu         sync.Mutex
	vocab      *words.Vocabulary
	src        words.Source
	maxGuesses int

	started  bool
	answer   string
	rows     []Row
	keyboard Keyboard
	state    State
}

// New constructs a Game bound to vocab. No round is active until
// StartRound is called.
func New(vocab *words.Vocabulary, opts Options) *Game {
	if opts.MaxGuesses <= 0 {
		opts.MaxGuesses = DefaultMaxGuesses
	}
	if opts.Source == nil {
		opts.Source = words.CryptoSource{}
	}
	return &Game{
		ID:         uuid.NewString(),
		vocab:      vocab,
		src:        opts.Source,
		maxGuesses: opts.MaxGuesses,
	}
}

// StartRound picks a new secret and clears the guess record and keyboard.
func (g *Game) StartRound() error {
	secret, err := g.vocab.PickRandom(g.src)
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset(secret)
	return nil
}

// StartRoundWith starts a round with a fixed secret, which must be in the
// vocabulary.
func (g *Game) StartRoundWith(secret string) error {
	secret = words.Normalize(secret)
	if !g.vocab.Contains(secret) {
		return fmt.Errorf("start round: %w", ErrNotInVocabulary)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset(secret)
	return nil
}

func (g *Game) reset(secret string) {
	g.started = true
	g.answer = secret
	g.rows = nil
	g.keyboard.Reset()
	g.state = StateInProgress
	log.Debug().Str("gameId", g.ID).Str("secret", secret).Msg("round started")
}

// SubmitGuess validates, scores and records a guess.
//
// Validation failures leave the game untouched and do not consume an
// attempt. A guess after the round ended returns ErrRoundAlreadyOver.
func (g *Game) SubmitGuess(raw string) (GuessResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		return GuessResult{}, ErrNoRound
	}
	if g.state.Over() {
		return GuessResult{}, ErrRoundAlreadyOver
	}
	guess := words.Normalize(raw)
	if utf8.RuneCountInString(guess) != words.WordLength {
		return GuessResult{}, ErrInvalidLength
	}
	if !words.IsAlpha(guess) {
		return GuessResult{}, ErrInvalidCharacters
	}
	if !g.vocab.Contains(guess) {
		return GuessResult{}, ErrNotInVocabulary
	}

	marks := Score(g.answer, guess)
	g.rows = append(g.rows, Row{Word: guess, Feedback: marks})
	g.keyboard.Apply(guess, marks)

	switch {
	case allCorrect(marks):
		g.state = StateWon
	case len(g.rows) >= g.maxGuesses:
		g.state = StateLost
	}

	res := GuessResult{
		Guess:     guess,
		Feedback:  append([]Feedback(nil), marks...),
		Keyboard:  g.keyboard.Snapshot(),
		State:     g.state,
		Attempt:   len(g.rows),
		Remaining: g.maxGuesses - len(g.rows),
	}
	if g.state == StateLost {
		res.Answer = g.answer
	}
	return res, nil
}

// Snapshot returns a copy of the board for rendering.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([]Row, len(g.rows))
	for i, r := range g.rows {
		rows[i] = Row{Word: r.Word, Feedback: append([]Feedback(nil), r.Feedback...)}
	}
	s := Snapshot{
		ID:         g.ID,
		Rows:       rows,
		Keyboard:   g.keyboard.Snapshot(),
		State:      g.state,
		MaxGuesses: g.maxGuesses,
		WordLength: words.WordLength,
	}
	if g.state == StateLost {
		s.Answer = g.answer
	}
	return s
}

// State reports the current round state. It is empty before the first round.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// MaxGuesses returns the configured attempt limit.
func (g *Game) MaxGuesses() int { return g.maxGuesses }

// Score implements the two-pass scoring algorithm. secret and guess must
// have equal length.
//
// Pass 1 marks exact matches Correct and consumes those secret positions.
// Pass 2 walks the remaining guess letters left to right; each consumes the
// first unconsumed occurrence in the secret and is marked Present, or is
// marked Absent if none is left.
func Score(secret, guess string) []Feedback {
	n := len(guess)
	res := make([]Feedback, n)
	used := make([]bool, len(secret))

	for i := 0; i < n && i < len(secret); i++ {
		if guess[i] == secret[i] {
			res[i] = FeedbackCorrect
			used[i] = true
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == FeedbackCorrect {
			continue
		}
		res[i] = FeedbackAbsent
		for j := 0; j < len(secret); j++ {
			if !used[j] && secret[j] == guess[i] {
				res[i] = FeedbackPresent
				used[j] = true
				break
			}
		}
	}
	return res
}

// allCorrect returns true if every mark is Correct.
func allCorrect(m []Feedback) bool {
	for _, x := range m {
		if x != FeedbackCorrect {
			return false
		}
	}
	return len(m) > 0
}
