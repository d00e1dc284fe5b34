package game

// Keyboard tracks the best feedback seen per letter a–z during a round.
type Keyboard [26]Feedback

// Get returns the current feedback for letter, or Unknown for non a–z bytes.
func (k *Keyboard) Get(letter byte) Feedback {
	if letter < 'a' || letter > 'z' {
		return FeedbackUnknown
	}
	return k[letter-'a']
}

// Upgrade raises letter to fb if fb ranks strictly higher.
// Reports whether the entry changed.
func (k *Keyboard) Upgrade(letter byte, fb Feedback) bool {
	if letter < 'a' || letter > 'z' {
		return false
	}
	if fb <= k[letter-'a'] {
		return false
	}
	k[letter-'a'] = fb
	return true
}

// Apply folds one scored guess into the keyboard.
func (k *Keyboard) Apply(guess string, marks []Feedback) {
	for i := 0; i < len(guess) && i < len(marks); i++ {
		k.Upgrade(guess[i], marks[i])
	}
}

// Snapshot returns the known letters keyed by their string form.
func (k *Keyboard) Snapshot() map[string]Feedback {
	out := make(map[string]Feedback)
	for i, fb := range k {
		if fb != FeedbackUnknown {
			out[string(rune('a'+i))] = fb
		}
	}
	return out
}

// Reset forgets every letter.
func (k *Keyboard) Reset() { *k = Keyboard{} }
