package dictionary

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrEmptyWord is returned when an empty word is added.
var ErrEmptyWord = errors.New("empty word")

// Entry is one dictionary line.
type Entry struct {
	Word string
	Freq uint64
	Tag  string
}

// Dictionary holds words, their frequencies and their part-of-speech tags.
//
// Mutations are serialized by a single lock. Reads are not synchronized
// against mutations: callers must not add or delete words while segmentation
// calls are running on the same dictionary.
type Dictionary struct {
	mu   sync.Mutex
	trie *Trie
	tags *TagTable
}

// NewDictionary creates a new empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		trie: NewTrie(),
		tags: newTagTable(),
	}
}

// FromEntries builds a dictionary in memory; tags are visible immediately.
func FromEntries(entries ...Entry) *Dictionary {
	d := NewDictionary()
	for _, e := range entries {
		if e.Word == "" {
			continue
		}
		d.trie.Insert(e.Word, e.Freq)
		if e.Tag != "" {
			d.tags.set(e.Word, e.Tag)
		}
	}
	return d
}

// Total returns the sum of all word frequencies.
func (d *Dictionary) Total() uint64 {
	return d.trie.Total()
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	return d.trie.Len()
}

// Tags returns the word-tag table.
func (d *Dictionary) Tags() *TagTable {
	return d.tags
}

// Contains checks if a word exists in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, _, exists := d.trie.Lookup(word)
	return exists
}

// ContainsRunes is Contains for a rune slice.
func (d *Dictionary) ContainsRunes(word []rune) bool {
	return d.trie.lookupRunes(word) > 0
}

// Frequency returns the frequency of a word.
func (d *Dictionary) Frequency(word string) (uint64, bool) {
	freq, _, exists := d.trie.Lookup(word)
	return freq, exists
}

// FrequencyOr returns the frequency of word, or def when it is not a word.
func (d *Dictionary) FrequencyOr(word string, def uint64) uint64 {
	if freq, ok := d.Frequency(word); ok {
		return freq
	}
	return def
}

// FrequencyRunesOr is FrequencyOr for a rune slice.
func (d *Dictionary) FrequencyRunesOr(word []rune, def uint64) uint64 {
	if freq := d.trie.lookupRunes(word); freq > 0 {
		return freq
	}
	return def
}

// Ends lists the inclusive end offsets of the words starting at k, ascending.
func (d *Dictionary) Ends(sentence []rune, k int) []int {
	return d.trie.Ends(sentence, k, nil)
}

// Add inserts or overwrites word. A non-empty tag is staged for the tag table.
func (d *Dictionary) Add(word string, freq uint64, tag string) error {
	if word == "" {
		return ErrEmptyWord
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trie.Insert(word, freq)
	if tag != "" {
		d.tags.Stage(word, tag)
	}
	return nil
}

// Delete removes word. Deleting an unknown word does nothing.
func (d *Dictionary) Delete(word string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trie.Remove(word)
}

// SuggestFreq returns a frequency high enough for word to win over segments,
// the way it is cut without it. Each segment contributes freq/total (unknown
// segments count as 1), the product is scaled back by total and rounded up,
// so that ln(f) - ln(total) is never below the summed log probability of the
// split. The current frequency of word is kept when it is already higher.
func (d *Dictionary) SuggestFreq(word string, segments []string) uint64 {
	total := float64(d.Total())
	if total <= 0 {
		return 1
	}
	p := 1.0
	for _, seg := range segments {
		p *= float64(d.FrequencyOr(seg, 1)) / total
	}
	suggested := uint64(p*total) + 1
	if current := d.FrequencyOr(word, 1); current > suggested {
		return current
	}
	return suggested
}
