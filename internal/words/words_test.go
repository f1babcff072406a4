package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_FiltersAndPartitions(t *testing.T) {
	r, err := New([]Entry{
		{Word: "Cat", Hint: " pet "},
		{Word: "moon"},
		{Word: "ab"},
		{Word: "toolong"},
		{Word: "c4t"},
	}, []string{"cot", "  Dog ", "x-y"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, Entry{Word: "cat", Hint: "pet"}, r.PickRandom(3))
	assert.Equal(t, "moon", r.PickRandom(4).Word)

	assert.True(t, r.IsValidGuess("CAT"), "game words are valid guesses")
	assert.True(t, r.IsValidGuess("dog"))
	assert.True(t, r.IsValidGuess(" cot "))
	assert.False(t, r.IsValidGuess("x-y"))
	assert.False(t, r.IsValidGuess("zzz"))
	assert.False(t, r.IsValidGuess(""))
}

func TestNew_EmptyIsError(t *testing.T) {
	_, err := New([]Entry{{Word: "a"}}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyWordList)
}

func TestPickRandom_FallsBackWithWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r, err := New([]Entry{{Word: "cat"}}, nil, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "cat", r.PickRandom(6).Word)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, 6, int(logs.All()[0].ContextMap()["length"].(int64)))
}

func TestLoad_Embedded(t *testing.T) {
	r, err := Load(Options{}, nil)
	require.NoError(t, err)

	for n := MinLength; n <= MaxLength; n++ {
		e := r.PickRandom(n)
		assert.Len(t, e.Word, n)
		assert.NotEmpty(t, e.Hint)
	}
	assert.Greater(t, r.DictionarySize(), r.Count())
	assert.True(t, r.IsValidGuess("crane"))
}

func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "wordlist.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"word":"lamp","hint":"light"},{"word":"sun","hint":null}]`), 0o644))

	txtPath := filepath.Join(dir, "wordlist.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("# comment\nRIVER\n\nplanet\n"), 0o644))

	dictPath := filepath.Join(dir, "dict.txt")
	require.NoError(t, os.WriteFile(dictPath, []byte("camp\n"), 0o644))

	r, err := Load(Options{WordlistPath: jsonPath, DictionaryPath: dictPath}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, "light", r.PickRandom(4).Hint)
	assert.Empty(t, r.PickRandom(3).Hint)
	assert.True(t, r.IsValidGuess("camp"))
	assert.False(t, r.IsValidGuess("crane"), "embedded dictionary is not merged with a configured one")

	r, err = Load(Options{WordlistPath: txtPath}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, "river", r.PickRandom(5).Word)

	_, err = Load(Options{WordlistPath: filepath.Join(dir, "missing.json")}, nil)
	assert.Error(t, err)
}
