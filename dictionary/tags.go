package dictionary

import "sync"

// DefaultTag is used for words that carry no part-of-speech tag.
const DefaultTag = "x"

// TagTable maps words to part-of-speech tags. Tags of user-added words are
// staged first and become visible once Merge is called, which the tagger
// does before every call.
type TagTable struct {
	mu      sync.RWMutex
	tags    map[string]string
	pending map[string]string
}

func newTagTable() *TagTable {
	return &TagTable{
		tags:    map[string]string{},
		pending: map[string]string{},
	}
}

func (t *TagTable) set(word, tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tags[word] = tag
}

// Stage records a tag to be merged later.
func (t *TagTable) Stage(word, tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[word] = tag
}

// Merge moves staged tags into the table. It is cheap when nothing is pending.
func (t *TagTable) Merge() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.pending) == 0 {
		return
	}
	for word, tag := range t.pending {
		t.tags[word] = tag
	}
	t.pending = map[string]string{}
}

// Lookup returns the merged tag of word or def.
func (t *TagTable) Lookup(word, def string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if tag, ok := t.tags[word]; ok {
		return tag
	}
	return def
}

// Len is the number of merged tags.
func (t *TagTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tags)
}
