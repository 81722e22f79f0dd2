package dictionary

// Trie is a prefix tree over runes. A node with freq 0 is a prefix of some
// longer word and is not a word itself.
type Trie struct {
	root    *node
	total   uint64
	entries int
}

type node struct {
	freq     uint64
	children map[rune]*node
}

func newNode() *node {
	return &node{children: map[rune]*node{}}
}

// NewTrie creates an empty trie.
func NewTrie() *Trie {
	return &Trie{root: newNode()}
}

// Total is the sum of all positive frequencies.
func (t *Trie) Total() uint64 {
	return t.total
}

// Len is the number of words with a positive frequency.
func (t *Trie) Len() int {
	return t.entries
}

// Insert sets the frequency of word, creating prefix nodes as needed.
// The frequency is written after the path exists so an interrupted insert
// only leaves prefix nodes behind.
func (t *Trie) Insert(word string, freq uint64) {
	cur := t.root
	for _, r := range word {
		next, ok := cur.children[r]
		if !ok {
			next = newNode()
			cur.children[r] = next
		}
		cur = next
	}
	if cur == t.root {
		return
	}
	t.setFreq(cur, freq)
}

// Remove clears the frequency of word and prunes nodes that no longer lead anywhere.
func (t *Trie) Remove(word string) bool {
	path := []*node{t.root}
	runes := []rune(word)
	cur := t.root
	for _, r := range runes {
		next, ok := cur.children[r]
		if !ok {
			return false
		}
		cur = next
		path = append(path, cur)
	}
	if cur == t.root || cur.freq == 0 {
		return false
	}
	t.setFreq(cur, 0)

	for i := len(runes); i > 0; i-- {
		n := path[i]
		if n.freq > 0 || len(n.children) > 0 {
			break
		}
		delete(path[i-1].children, runes[i-1])
	}
	return true
}

func (t *Trie) setFreq(n *node, freq uint64) {
	if n.freq > 0 {
		t.total -= n.freq
		t.entries--
	}
	if freq > 0 {
		t.total += freq
		t.entries++
	}
	n.freq = freq
}

// Lookup returns the frequency of word, whether it is a prefix of a longer
// entry and whether it is a word at all.
func (t *Trie) Lookup(word string) (freq uint64, isPrefix bool, exists bool) {
	cur := t.root
	for _, r := range word {
		next, ok := cur.children[r]
		if !ok {
			return 0, false, false
		}
		cur = next
	}
	return cur.freq, len(cur.children) > 0, cur.freq > 0
}

// lookupRunes is Lookup for a rune slice, without allocating a string.
func (t *Trie) lookupRunes(word []rune) uint64 {
	cur := t.root
	for _, r := range word {
		next, ok := cur.children[r]
		if !ok {
			return 0
		}
		cur = next
	}
	return cur.freq
}

// Ends appends to dst every j >= k, in ascending order, for which
// sentence[k..j] is a word. The walk stops at the first rune without a
// matching child, so its cost is bounded by the longest matching prefix.
func (t *Trie) Ends(sentence []rune, k int, dst []int) []int {
	cur := t.root
	for i := k; i < len(sentence); i++ {
		next, ok := cur.children[sentence[i]]
		if !ok {
			break
		}
		cur = next
		if cur.freq > 0 {
			dst = append(dst, i)
		}
	}
	return dst
}
