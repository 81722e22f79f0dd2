package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_Load(t *testing.T) {
	content := "南京市 100 ns\n长江大桥 100\n南京 10 ns\n"
	path := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	dict := NewDictionary()
	report, err := dict.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Kept)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, uint64(210), dict.Total())
	assert.Equal(t, 3, dict.Len())
	assert.True(t, dict.Contains("南京市"))
	assert.False(t, dict.Contains("南"), "prefix only")
	assert.Equal(t, "ns", dict.Tags().Lookup("南京", DefaultTag))
	assert.Equal(t, DefaultTag, dict.Tags().Lookup("长江大桥", DefaultTag))
}

func TestDictionary_LoadMissingFile(t *testing.T) {
	_, err := NewDictionary().Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestDictionary_LoadSkipsBadLines(t *testing.T) {
	content := strings.Join([]string{
		"好 5",
		"坏",
		"",
		"错 abc",
		"多 1 n extra",
		"对 7 a",
	}, "\n")

	dict := NewDictionary()
	report, err := dict.LoadReader(strings.NewReader(content), "inline")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Kept)
	require.Len(t, report.Skipped, 3)
	assert.Equal(t, 2, report.Skipped[0].Line)
	assert.Equal(t, 4, report.Skipped[1].Line)
	assert.Equal(t, 5, report.Skipped[2].Line)
	assert.Equal(t, uint64(12), dict.Total())
	assert.Contains(t, report.String(), "2 kept, 3 skipped")
}

func TestDictionary_Frequency(t *testing.T) {
	dict := FromEntries(Entry{Word: "A", Freq: 10}, Entry{Word: "AB", Freq: 90})

	freq, ok := dict.Frequency("A")
	assert.True(t, ok)
	assert.Equal(t, uint64(10), freq)

	_, ok = dict.Frequency("Unknown")
	assert.False(t, ok)
	assert.Equal(t, uint64(1), dict.FrequencyOr("Unknown", 1))
	assert.Equal(t, uint64(0), dict.FrequencyOr("Unknown", 0))
	assert.Equal(t, uint64(90), dict.FrequencyRunesOr([]rune("AB"), 1))
	assert.True(t, dict.ContainsRunes([]rune("AB")))
}

func TestDictionary_AddDelete(t *testing.T) {
	dict := FromEntries(Entry{Word: "ab", Freq: 5})

	require.NoError(t, dict.Add("a", 2, ""))
	require.NoError(t, dict.Add("abc", 3, "n"))
	assert.Equal(t, uint64(10), dict.Total())

	// Overwrite keeps the total consistent.
	require.NoError(t, dict.Add("a", 4, ""))
	assert.Equal(t, uint64(12), dict.Total())

	// Tags of added words only show up after Merge.
	assert.Equal(t, DefaultTag, dict.Tags().Lookup("abc", DefaultTag))
	dict.Tags().Merge()
	assert.Equal(t, "n", dict.Tags().Lookup("abc", DefaultTag))

	dict.Delete("ab")
	assert.False(t, dict.Contains("ab"))
	assert.True(t, dict.Contains("abc"), "descendants survive")
	assert.Equal(t, uint64(7), dict.Total())

	dict.Delete("nothing")
	assert.Equal(t, uint64(7), dict.Total())

	assert.ErrorIs(t, dict.Add("", 1, ""), ErrEmptyWord)
}

func TestDictionary_SuggestFreq(t *testing.T) {
	dict := FromEntries(
		Entry{Word: "x", Freq: 32},
		Entry{Word: "y", Freq: 64},
		Entry{Word: "z", Freq: 32},
	)

	// total 128: 128 * (32/128) * (64/128) = 16, plus one.
	assert.Equal(t, uint64(17), dict.SuggestFreq("xy", []string{"x", "y"}))

	// An unknown segment counts as frequency 1.
	assert.Equal(t, uint64(1), dict.SuggestFreq("xq", []string{"x", "q"}))

	// A word that is already more frequent keeps its frequency.
	assert.Equal(t, uint64(32), dict.SuggestFreq("z", []string{"x", "y"}))

	assert.Equal(t, uint64(1), NewDictionary().SuggestFreq("any", []string{"a", "ny"}))
}

func TestDictionary_Ends(t *testing.T) {
	dict := FromEntries(
		Entry{Word: "南京", Freq: 10},
		Entry{Word: "南京市", Freq: 100},
		Entry{Word: "南京市长江大桥", Freq: 1},
	)
	sentence := []rune("南京市长江大桥")

	assert.Equal(t, []int{1, 2, 6}, dict.Ends(sentence, 0))
	assert.Empty(t, dict.Ends(sentence, 3))
}

func TestParseUserLine(t *testing.T) {
	tests := []struct {
		line    string
		want    Entry
		wantErr bool
	}{
		{line: "云计算", want: Entry{Word: "云计算"}},
		{line: "云计算 5", want: Entry{Word: "云计算", Freq: 5}},
		{line: "云计算 n", want: Entry{Word: "云计算", Tag: "n"}},
		{line: "云计算 5 n", want: Entry{Word: "云计算", Freq: 5, Tag: "n"}},
		{line: "云计算 5x", wantErr: true},
		{line: "云计算 x5 n", wantErr: true},
		{line: "云计算 -1", wantErr: true},
		{line: "a b c d", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseUserLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
