package hmm

import (
	"math"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MinProb is the log probability of an unseen emission.
const MinProb = -3.14e100

// noTrans marks a transition that does not exist.
const noTrans = -math.MaxFloat64

// Boundary labels. Compound labels such as "B-n" carry the boundary before the dash.
const (
	TagB = "B" // Begin
	TagM = "M" // Middle
	TagE = "E" // End
	TagS = "S" // Single
)

// Tables are the probability tables of a model keyed by label, as persisted.
// Every value is a natural log probability.
type Tables struct {
	Start    map[string]float64            `json:"start"`
	Trans    map[string]map[string]float64 `json:"trans"`
	Emit     map[string]map[string]float64 `json:"emit"`
	StateTab map[string][]string           `json:"state_tab"`
}

// Model is an HMM whose labels are resolved to small integer ids once.
// Ids follow the lexicographic order of the labels, so comparing ids
// compares labels.
type Model struct {
	labels   []string
	start    []float64
	trans    [][]float64 // trans[from][to], noTrans when absent
	next     [][]int     // ids reachable from a state, ascending
	emit     []map[rune]float64
	stateTab map[rune][]int
	final    []bool
	all      []int

	// finalOnly keeps sequences from ending on a state that opens a word.
	finalOnly bool
}

// New resolves tables into a model.
func New(tables Tables) (*Model, error) {
	if len(tables.Start) == 0 {
		return nil, errors.New("hmm: empty start table")
	}
	labels := lo.Keys(tables.Start)
	slices.Sort(labels)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	lookup := func(label, table string) (int, error) {
		id, ok := index[label]
		if !ok {
			return 0, errors.Errorf("hmm: %s table refers to unknown state %q", table, label)
		}
		return id, nil
	}

	n := len(labels)
	m := &Model{
		labels:   labels,
		start:    make([]float64, n),
		trans:    make([][]float64, n),
		next:     make([][]int, n),
		emit:     make([]map[rune]float64, n),
		stateTab: map[rune][]int{},
		final:    make([]bool, n),
		all:      make([]int, n),
	}
	for i, l := range labels {
		m.start[i] = tables.Start[l]
		m.trans[i] = make([]float64, n)
		for j := range m.trans[i] {
			m.trans[i][j] = noTrans
		}
		m.emit[i] = map[rune]float64{}
		m.final[i] = isFinal(l)
		m.all[i] = i
	}

	for from, row := range tables.Trans {
		i, err := lookup(from, "trans")
		if err != nil {
			return nil, err
		}
		for to, p := range row {
			j, err := lookup(to, "trans")
			if err != nil {
				return nil, err
			}
			m.trans[i][j] = p
			m.next[i] = append(m.next[i], j)
		}
		slices.Sort(m.next[i])
	}

	for state, row := range tables.Emit {
		i, err := lookup(state, "emit")
		if err != nil {
			return nil, err
		}
		for obs, p := range row {
			r, ok := singleRune(obs)
			if !ok {
				return nil, errors.Errorf("hmm: emit key %q is not a single character", obs)
			}
			m.emit[i][r] = p
		}
	}

	for obs, states := range tables.StateTab {
		r, ok := singleRune(obs)
		if !ok {
			return nil, errors.Errorf("hmm: state table key %q is not a single character", obs)
		}
		ids := make([]int, 0, len(states))
		for _, s := range states {
			id, err := lookup(s, "state_tab")
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		slices.Sort(ids)
		m.stateTab[r] = slices.Compact(ids)
	}
	return m, nil
}

// isFinal reports whether a sequence may stop on label.
func isFinal(label string) bool {
	b, _, _ := strings.Cut(label, "-")
	return b == TagE || b == TagS
}

func singleRune(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

// States returns the number of states.
func (m *Model) States() int {
	return len(m.labels)
}

func (m *Model) emission(state int, r rune) float64 {
	if p, ok := m.emit[state][r]; ok {
		return p
	}
	return MinProb
}

func (m *Model) candidates(r rune) []int {
	if ids, ok := m.stateTab[r]; ok && len(ids) > 0 {
		return ids
	}
	return m.all
}
