// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Feedback: per-letter result of a guess, totally ordered for the keyboard.
//   - State: round state machine (in_progress/won/lost).
//   - Row, GuessResult, Snapshot: what the presentation layer renders.

package game

import (
	"encoding/json"
	"fmt"
)

// Feedback is the evaluation of one letter. Values are ordered by rank:
// Unknown < Absent < Present < Correct.
type Feedback uint8

const (
	FeedbackUnknown Feedback = iota
	FeedbackAbsent
	FeedbackPresent
	FeedbackCorrect
)

var feedbackNames = [...]string{
	FeedbackUnknown: "unknown",
	FeedbackAbsent:  "absent",
	FeedbackPresent: "present",
	FeedbackCorrect: "correct",
}

func (f Feedback) String() string {
	if int(f) < len(feedbackNames) {
		return feedbackNames[f]
	}
	return fmt.Sprintf("Feedback(%d)", uint8(f))
}

// MarshalJSON encodes the feedback as its name.
func (f Feedback) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a feedback name.
func (f *Feedback) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for i, name := range feedbackNames {
		if name == s {
			*f = Feedback(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown feedback %q", s)
}

// State is the round state.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Over reports whether the round has ended.
func (s State) Over() bool { return s == StateWon || s == StateLost }

// Row is one submitted guess with its per-position feedback.
type Row struct {
	Word     string     `json:"word"`
	Feedback []Feedback `json:"feedback"`
}

// GuessResult is returned for every accepted guess.
type GuessResult struct {
	Guess     string              `json:"guess"`
	Feedback  []Feedback          `json:"feedback"`
	Keyboard  map[string]Feedback `json:"keyboard"`
	State     State               `json:"state"`
	Attempt   int                 `json:"attempt"`
	Remaining int                 `json:"remaining"`
	Answer    string              `json:"answer,omitempty"` // only set when lost
}

// Snapshot is the full board for rendering.
type Snapshot struct {
	ID         string              `json:"id"`
	Rows       []Row               `json:"rows"`
	Keyboard   map[string]Feedback `json:"keyboard"`
	State      State               `json:"state"`
	MaxGuesses int                 `json:"maxGuesses"`
	WordLength int                 `json:"wordLength"`
	Answer     string              `json:"answer,omitempty"` // only set when lost
}
