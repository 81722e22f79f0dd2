package segmenter

import (
	"math"

	"github.com/teatak/hanseg/dictionary"
)

// DAG holds, for each start offset k, the ascending inclusive end offsets j
// for which sentence[k..j] is a dictionary word. A start without any word
// has the single end k. Consumers rely on both orders: starts are visited
// from 0 upwards and ends from the shortest word up.
type DAG [][]int

// Ends returns the end offsets of words starting at k.
func (d DAG) Ends(k int) []int {
	return d[k]
}

// BuildDAG computes the DAG of sentence against dict.
func BuildDAG(dict *dictionary.Dictionary, sentence []rune) DAG {
	dag := make(DAG, len(sentence))
	for k := range sentence {
		ends := dict.Ends(sentence, k)
		if len(ends) == 0 {
			ends = []int{k}
		}
		dag[k] = ends
	}
	return dag
}

// RouteNode is the best way to continue from an offset: the exclusive end of
// the next word and the log probability of the rest of the sentence.
type RouteNode struct {
	Next    int
	LogProb float64
}

// Route is indexed by offset, with one extra node for the end of the sentence.
type Route []RouteNode

// SolveRoute finds the most probable path through dag, from the end of the
// sentence backwards. A word scores ln(freq) - ln(total), with words missing
// from the dictionary counted as frequency 1. Among equal scores the first,
// shortest, candidate is kept.
func SolveRoute(dict *dictionary.Dictionary, sentence []rune, dag DAG) Route {
	n := len(sentence)
	route := make(Route, n+1)
	route[n] = RouteNode{Next: n, LogProb: 0}

	logTotal := 0.0
	if total := dict.Total(); total > 0 {
		logTotal = math.Log(float64(total))
	}
	for i := n - 1; i >= 0; i-- {
		best := RouteNode{Next: -1, LogProb: math.Inf(-1)}
		for _, j := range dag[i] {
			freq := dict.FrequencyRunesOr(sentence[i:j+1], 1)
			prob := math.Log(float64(freq)) - logTotal + route[j+1].LogProb
			if best.Next < 0 || prob > best.LogProb {
				best = RouteNode{Next: j + 1, LogProb: prob}
			}
		}
		route[i] = best
	}
	return route
}
