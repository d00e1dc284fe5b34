// internal/words/words.go
//
// Vocabulary store for the game engine.
//
// Responsibilities:
//   - Load the word list from a line-oriented source (file, reader or the
//     embedded default in assets/).
//   - Keep only lowercase five-letter alphabetic words; everything else,
//     including comments and blank lines, is dropped silently.
//   - Answer membership checks and pick secret words from an injectable
//     random source.
//
// A Vocabulary is immutable after construction and safe to share across
// sessions. Reloading means building a new one.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robalobadob/wordle/apps/wordle-core/assets"
)

// WordLength is the fixed number of letters in every word.
const WordLength = 5

var (
	// ErrVocabularyUnavailable is returned when the word source cannot be read.
	ErrVocabularyUnavailable = errors.New("vocabulary unavailable")
	// ErrEmptyVocabulary is returned when a secret is requested from an empty list.
	ErrEmptyVocabulary = errors.New("vocabulary is empty")
)

// Vocabulary holds the ordered word list and a set for lookups.
type Vocabulary struct {
	list []string
	set  map[string]struct{}
}

// New builds a Vocabulary from list, applying the same filter as Load.
func New(list []string) *Vocabulary {
	v := &Vocabulary{set: make(map[string]struct{}, len(list))}
	for _, raw := range list {
		v.add(raw)
	}
	return v
}

// Load reads one word per line from the file at path.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVocabularyUnavailable, err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader reads one word per line from r. Lines of any length are
// accepted; those that are not valid words are skipped.
func LoadReader(r io.Reader) (*Vocabulary, error) {
	v := &Vocabulary{set: make(map[string]struct{})}
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			v.add(line)
		}
		if errors.Is(err, io.EOF) {
			return v, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrVocabularyUnavailable, err)
		}
	}
}

// Default loads the word list embedded in the binary.
func Default() (*Vocabulary, error) {
	f, err := assets.OpenVocabulary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVocabularyUnavailable, err)
	}
	defer f.Close()
	return LoadReader(f)
}

// add normalizes raw and appends it if it is a valid, unseen word.
func (v *Vocabulary) add(raw string) {
	w := Normalize(raw)
	if len(w) != WordLength || !IsAlpha(w) {
		return
	}
	if _, dup := v.set[w]; dup {
		return
	}
	v.set[w] = struct{}{}
	v.list = append(v.list, w)
}

// Contains reports whether word is in the vocabulary, ignoring case and
// surrounding whitespace.
func (v *Vocabulary) Contains(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.set[Normalize(word)]
	return ok
}

// PickRandom returns a uniformly chosen word using src.
// A nil src falls back to CryptoSource.
func (v *Vocabulary) PickRandom(src Source) (string, error) {
	if v.Len() == 0 {
		return "", ErrEmptyVocabulary
	}
	if src == nil {
		src = CryptoSource{}
	}
	i := src.IntN(len(v.list))
	if i < 0 || i >= len(v.list) {
		return "", fmt.Errorf("words: source returned index %d for %d words", i, len(v.list))
	}
	return v.list[i], nil
}

// Len returns the number of words.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.list)
}

// At returns the i-th word in load order.
func (v *Vocabulary) At(i int) string { return v.list[i] }

// Words returns a copy of the word list in load order.
func (v *Vocabulary) Words() []string {
	return append([]string(nil), v.list...)
}

// Normalize trims surrounding whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsAlpha reports whether s is non-empty and all lowercase ASCII letters.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
