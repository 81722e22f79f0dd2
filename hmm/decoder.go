package hmm

import (
	"math"
)

// Decode performs Viterbi decoding to find the best state sequence for obs.
//
// At each position only states allowed by the character state table and
// reachable from a live state of the previous position are scored. When two
// predecessors (or two last states) score the same, the greater label wins,
// which keeps the output stable across runs. A boundary model only ends on
// E or S when one of them is live.
func (m *Model) Decode(obs []rune) ([]int, float64) {
	n := len(obs)
	if n == 0 {
		return []int{}, 0
	}
	states := len(m.labels)

	// v[i][s] = best log probability of a path ending at i in state s
	v := make([][]float64, n)
	// path[i][s] = previous state on that path
	path := make([][]int, n)
	// live[i] lists the states scored at i, ascending
	live := make([][]int, n)
	for i := range v {
		v[i] = make([]float64, states)
		path[i] = make([]int, states)
	}

	for _, s := range m.candidates(obs[0]) {
		v[0][s] = m.start[s] + m.emission(s, obs[0])
		path[0][s] = -1
	}
	live[0] = m.candidates(obs[0])

	reachable := make([]bool, states)
	for i := 1; i < n; i++ {
		clear(reachable)
		var prev []int
		for _, y0 := range live[i-1] {
			if len(m.next[y0]) == 0 {
				continue
			}
			prev = append(prev, y0)
			for _, y := range m.next[y0] {
				reachable[y] = true
			}
		}

		var cur []int
		for _, y := range m.candidates(obs[i]) {
			if reachable[y] {
				cur = append(cur, y)
			}
		}
		if len(cur) == 0 {
			for y := 0; y < states; y++ {
				if reachable[y] {
					cur = append(cur, y)
				}
			}
		}
		if len(cur) == 0 {
			cur = m.all
		}
		if len(prev) == 0 {
			prev = live[i-1]
		}

		for _, y := range cur {
			emission := m.emission(y, obs[i])
			maxScore := math.Inf(-1)
			bestPrev := -1
			for _, y0 := range prev {
				score := v[i-1][y0] + m.trans[y0][y] + emission
				if bestPrev < 0 || score > maxScore || (score == maxScore && y0 > bestPrev) {
					maxScore = score
					bestPrev = y0
				}
			}
			v[i][y] = maxScore
			path[i][y] = bestPrev
		}
		live[i] = cur
	}

	// Termination
	last := live[n-1]
	ends := last
	if m.finalOnly {
		ends = make([]int, 0, len(last))
		for _, s := range last {
			if m.final[s] {
				ends = append(ends, s)
			}
		}
		if len(ends) == 0 {
			ends = last
		}
	}
	bestEnd := -1
	maxScore := math.Inf(-1)
	for _, s := range ends {
		if bestEnd < 0 || v[n-1][s] > maxScore || (v[n-1][s] == maxScore && s > bestEnd) {
			maxScore = v[n-1][s]
			bestEnd = s
		}
	}

	// Backtrack
	tags := make([]int, n)
	tags[n-1] = bestEnd
	for i := n - 1; i > 0; i-- {
		tags[i-1] = path[i][tags[i]]
	}
	return tags, maxScore
}
