package engine

import (
	"math/rand/v2"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

const (
	MinDecoys = 2
	MaxDecoys = 3
)

// Rand is the subset of *rand.Rand the engine needs. Tests pass a seeded
// *rand.Rand; production uses the package-level source.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRand is safe for concurrent use by every match.
var DefaultRand Rand = globalRand{}

// Shuffle returns the letters of word plus 2 or 3 decoy letters that do not
// occur in word, in uniformly random order.
func Shuffle(word string, r Rand) []string {
	if r == nil {
		r = DefaultRand
	}

	available := make([]byte, 0, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		if !strings.ContainsRune(word, rune(alphabet[i])) {
			available = append(available, alphabet[i])
		}
	}

	decoys := MinDecoys + r.IntN(MaxDecoys-MinDecoys+1)
	if decoys > len(available) {
		decoys = len(available)
	}

	letters := make([]string, 0, len(word)+decoys)
	for i := 0; i < len(word); i++ {
		letters = append(letters, string(word[i]))
	}
	for i := 0; i < decoys; i++ {
		idx := r.IntN(len(available))
		letters = append(letters, string(available[idx]))
		available = append(available[:idx], available[idx+1:]...)
	}

	r.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	return letters
}
