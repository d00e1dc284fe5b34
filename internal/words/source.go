package words

import (
	"crypto/rand"
	"math/big"
)

// Source picks an index in [0, n). *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// CryptoSource draws indexes from crypto/rand.
type CryptoSource struct{}

// IntN returns a uniform index in [0, n). It panics if n <= 0.
func (CryptoSource) IntN(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("words: crypto/rand failed: " + err.Error())
	}
	return int(nBig.Int64())
}

// FixedSource always returns the same index, wrapped into range.
type FixedSource int

// IntN returns the fixed index modulo n.
func (f FixedSource) IntN(n int) int {
	i := int(f) % n
	if i < 0 {
		i += n
	}
	return i
}
