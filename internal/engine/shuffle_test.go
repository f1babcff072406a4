package engine

import (
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShuffle_ContainsWordPlusDecoys(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, word := range []string{"cat", "moon", "apple", "banana"} {
		for i := 0; i < 200; i++ {
			letters := Shuffle(word, rng)

			decoys := len(letters) - len(word)
			require.GreaterOrEqual(t, decoys, MinDecoys)
			require.LessOrEqual(t, decoys, MaxDecoys)

			rest := append([]string(nil), letters...)
			for _, l := range strings.Split(word, "") {
				idx := indexOf(rest, l)
				require.NotEqualf(t, -1, idx, "letter %q missing from %v", l, letters)
				rest = append(rest[:idx], rest[idx+1:]...)
			}

			require.Len(t, rest, decoys)
			seen := map[string]bool{}
			for _, d := range rest {
				require.Falsef(t, strings.Contains(word, d), "decoy %q occurs in %q", d, word)
				require.Falsef(t, seen[d], "decoy %q repeated", d)
				seen[d] = true
			}
		}
	}
}

func TestShuffle_DecoyCountVaries(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	counts := map[int]int{}
	for i := 0; i < 200; i++ {
		counts[len(Shuffle("word", rng))-4]++
	}
	require.Positive(t, counts[2])
	require.Positive(t, counts[3])
}

func TestShuffle_PositionsAreNotFixed(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	firsts := map[string]bool{}
	for i := 0; i < 200; i++ {
		firsts[Shuffle("abcdef", rng)[0]] = true
	}
	// Every one of the six word letters should lead at least once.
	got := make([]string, 0, len(firsts))
	for l := range firsts {
		if strings.Contains("abcdef", l) {
			got = append(got, l)
		}
	}
	sort.Strings(got)
	require.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, got)
}

func indexOf(s []string, v string) int {
	for i := range s {
		if s[i] == v {
			return i
		}
	}
	return -1
}
