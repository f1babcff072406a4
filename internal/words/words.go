// Package words holds the game word list and the guess dictionary.
//
// Game words come from a JSON list of {word, hint} objects or a plain text
// list with one word per line. The dictionary is a larger set of accepted
// guesses and always contains every game word. Without configured paths the
// embedded defaults are used. A Repository is read-only after construction
// and safe to share between matches.
package words

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	MinLength = 3
	MaxLength = 6
)

var ErrEmptyWordList = errors.New("words: no usable game words")

//go:embed default_wordlist.json
var embeddedWordlist []byte

//go:embed default_dictionary.txt
var embeddedDictionary string

type Entry struct {
	Word string `json:"word"`
	Hint string `json:"hint,omitempty"`
}

type Options struct {
	WordlistPath   string
	DictionaryPath string
}

type Repository struct {
	all      []Entry
	byLength map[int][]Entry
	valid    map[string]struct{}
	log      *zap.Logger
}

// New builds a repository from in-memory lists. Entries that are not 3 to 6
// lowercase letters are dropped.
func New(entries []Entry, dictionary []string, log *zap.Logger) (*Repository, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Repository{
		byLength: make(map[int][]Entry),
		valid:    make(map[string]struct{}, len(entries)+len(dictionary)),
		log:      log,
	}
	for _, e := range entries {
		w := normalize(e.Word)
		if !isGameWord(w) {
			continue
		}
		e.Word = w
		e.Hint = strings.TrimSpace(e.Hint)
		r.all = append(r.all, e)
		r.byLength[len(w)] = append(r.byLength[len(w)], e)
		r.valid[w] = struct{}{}
	}
	if len(r.all) == 0 {
		return nil, ErrEmptyWordList
	}
	for _, w := range dictionary {
		w = normalize(w)
		if w != "" && isAlpha(w) {
			r.valid[w] = struct{}{}
		}
	}
	return r, nil
}

// Load reads the configured files, falling back to the embedded lists for
// any path left empty.
func Load(opts Options, log *zap.Logger) (*Repository, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var entries []Entry
	var err error
	if opts.WordlistPath == "" {
		entries, err = parseJSON(embeddedWordlist)
	} else {
		entries, err = readWordlist(opts.WordlistPath)
	}
	if err != nil {
		return nil, err
	}

	var dict []string
	if opts.DictionaryPath == "" {
		dict = parseLines(strings.NewReader(embeddedDictionary))
	} else {
		f, err := os.Open(opts.DictionaryPath)
		if err != nil {
			return nil, fmt.Errorf("words: open dictionary: %w", err)
		}
		defer f.Close()
		dict = parseLines(f)
	}

	r, err := New(entries, dict, log)
	if err != nil {
		return nil, err
	}
	log.Info("word lists loaded",
		zap.Int("words", r.Count()),
		zap.Int("dictionary", r.DictionarySize()),
		zap.Bool("embedded", opts.WordlistPath == ""),
	)
	return r, nil
}

func readWordlist(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open wordlist: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("words: read wordlist: %w", err)
		}
		return parseJSON(data)
	}

	var entries []Entry
	for _, w := range parseLines(f) {
		entries = append(entries, Entry{Word: w})
	}
	return entries, nil
}

func parseJSON(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("words: decode wordlist: %w", err)
	}
	return entries, nil
}

// parseLines keeps one word per non-empty, non-comment line.
func parseLines(r io.Reader) []string {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out
}

// PickRandom returns a random entry with the requested length. When none
// exists it logs a warning and returns an arbitrary entry instead.
func (r *Repository) PickRandom(length int) Entry {
	if list := r.byLength[length]; len(list) > 0 {
		return list[rand.IntN(len(list))]
	}
	r.log.Warn("no words for requested length, using any word", zap.Int("length", length))
	return r.all[rand.IntN(len(r.all))]
}

// IsValidGuess reports whether w is an accepted guess. Matching ignores
// case; anything other than letters is rejected.
func (r *Repository) IsValidGuess(w string) bool {
	w = normalize(w)
	if w == "" || !isAlpha(w) {
		return false
	}
	_, ok := r.valid[w]
	return ok
}

func (r *Repository) Count() int { return len(r.all) }

func (r *Repository) DictionarySize() int { return len(r.valid) }

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func isGameWord(w string) bool {
	return len(w) >= MinLength && len(w) <= MaxLength && isAlpha(w)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
