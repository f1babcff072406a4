package engine

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statuses(res []LetterResult) string {
	var b strings.Builder
	for _, r := range res {
		switch r.Status {
		case StatusCorrect:
			b.WriteByte('C')
		case StatusPresent:
			b.WriteByte('P')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		guess  string
		target string
		want   string
	}{
		{name: "exact match", guess: "crane", target: "crane", want: "CCCCC"},
		{name: "no overlap", guess: "dog", target: "cat", want: "..."},
		{name: "transposed letters", guess: "tac", target: "cat", want: "PCP"},
		{name: "duplicate guess letter, single in target", guess: "llama", target: "plane", want: ".CC.."},
		{name: "correct match consumes its letter first", guess: "eerie", target: "there", want: "P.P.C"},
		{name: "duplicate in both", guess: "otto", target: "tool", want: "PP.P"},
		{name: "target duplicate, guess single", guess: "bead", target: "abbe", want: "PPP."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.guess, tc.target)
			require.Len(t, got, len(tc.guess))
			assert.Equal(t, tc.want, statuses(got))
			for i, r := range got {
				assert.Equal(t, string(tc.guess[i]), r.Letter)
			}
		})
	}
}

func TestEvaluate_NeverOverCreditsLetters(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const letters = "abcde"
	word := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = letters[rng.IntN(len(letters))]
		}
		return string(b)
	}

	for i := 0; i < 2000; i++ {
		n := 3 + rng.IntN(4)
		guess, target := word(n), word(n)
		res := Evaluate(guess, target)

		credited := map[byte]int{}
		for j, r := range res {
			if r.Status != StatusAbsent {
				credited[guess[j]]++
			}
		}
		for l, c := range credited {
			require.LessOrEqualf(t, c, strings.Count(target, string(l)),
				"guess=%s target=%s letter=%c", guess, target, l)
		}
		if guess == target {
			require.True(t, Solved(res))
		}
	}
}

func TestSolved(t *testing.T) {
	assert.False(t, Solved(nil))
	assert.False(t, Solved(Evaluate("cat", "cab")))
	assert.True(t, Solved(Evaluate("cab", "cab")))
}
