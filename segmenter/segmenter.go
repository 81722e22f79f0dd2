package segmenter

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/teatak/hanseg/dictionary"
	"github.com/teatak/hanseg/hmm"
	"github.com/teatak/hanseg/util"
)

// Mode defines the segmentation mode.
type Mode int

const (
	ModeAccurate Mode = iota // ModeAccurate returns the most probable partition.
	ModeFull                 // ModeFull returns every dictionary word, overlapping.
	ModeSearch               // ModeSearch adds dictionary 2- and 3-grams inside long words to ModeAccurate.
)

// Token is a piece of the input. Start and End are rune offsets, End exclusive.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag,omitempty"`
}

// Words returns the text of each token.
func Words(tokens []Token) []string {
	return lo.Map(tokens, func(t Token, _ int) string { return t.Text })
}

// Segmenter handles the text segmentation.
type Segmenter struct {
	res      *Resources
	dict     *dictionary.Dictionary
	boundary *hmm.Model
}

// New creates a segmenter over res, loading the boundary model if needed.
// A missing boundary model is an error.
func New(res *Resources) (*Segmenter, error) {
	boundary, err := res.Boundary()
	if err != nil {
		return nil, errors.Wrap(err, "load boundary model")
	}
	return &Segmenter{res: res, dict: res.Dict, boundary: boundary}, nil
}

// Resources returns the resources the segmenter reads.
func (s *Segmenter) Resources() *Resources {
	return s.res
}

// Cut segments the text. With useHMM, runs of single characters the
// dictionary cannot explain are re-segmented by the boundary model.
// ModeFull ignores useHMM and only looks words up inside Han runs.
func (s *Segmenter) Cut(text string, mode Mode, useHMM bool) []Token {
	runes := []rune(text)
	tokens := make([]Token, 0, len(runes)/2+1)
	blocks := Blocks(runes)
	if mode == ModeFull {
		blocks = HanBlocks(runes)
	}
	for _, block := range blocks {
		if block.Word {
			switch {
			case mode == ModeFull:
				tokens = s.cutAll(block, tokens)
			case useHMM:
				tokens = s.cutDAG(block, tokens)
			default:
				tokens = s.cutDAGNoHMM(block, tokens)
			}
			continue
		}
		for _, part := range block.SplitSpace() {
			if !part.Word || mode != ModeFull {
				tokens = append(tokens, part.Token(0, len(part.Runes)))
				continue
			}
			for i := range part.Runes {
				tokens = append(tokens, part.Token(i, i+1))
			}
		}
	}
	if mode == ModeSearch {
		tokens = s.addSubWords(tokens)
	}
	return tokens
}

// CutWords is Cut returning the token texts.
func (s *Segmenter) CutWords(text string, mode Mode, useHMM bool) []string {
	return Words(s.Cut(text, mode, useHMM))
}

// cutDAG follows the best route; consecutive single characters are buffered
// and handed to flushBuffer.
func (s *Segmenter) cutDAG(b Block, tokens []Token) []Token {
	route := SolveRoute(s.dict, b.Runes, BuildDAG(s.dict, b.Runes))
	n := len(b.Runes)

	bufStart := -1
	for x := 0; x < n; {
		y := route[x].Next
		if y-x == 1 {
			if bufStart < 0 {
				bufStart = x
			}
		} else {
			if bufStart >= 0 {
				tokens = s.flushBuffer(b, bufStart, x, tokens)
				bufStart = -1
			}
			tokens = append(tokens, b.Token(x, y))
		}
		x = y
	}
	if bufStart >= 0 {
		tokens = s.flushBuffer(b, bufStart, n, tokens)
	}
	return tokens
}

func (s *Segmenter) flushBuffer(b Block, start, end int, tokens []Token) []Token {
	buf := b.Runes[start:end]
	if len(buf) == 1 || s.dict.ContainsRunes(buf) {
		return append(tokens, b.Token(start, end))
	}
	for _, run := range SplitRuns(buf) {
		if run.Kind != RunHan {
			tokens = append(tokens, b.Token(start+run.Start, start+run.End))
			continue
		}
		for _, span := range s.boundary.Segment(buf[run.Start:run.End]) {
			tokens = append(tokens, b.Token(start+run.Start+span.Start, start+run.Start+span.End))
		}
	}
	return tokens
}

// cutDAGNoHMM follows the best route without the boundary model. Single
// ASCII letters and digits are glued back into one token; other single
// characters stay single.
func (s *Segmenter) cutDAGNoHMM(b Block, tokens []Token) []Token {
	route := SolveRoute(s.dict, b.Runes, BuildDAG(s.dict, b.Runes))
	n := len(b.Runes)

	engStart := -1
	for x := 0; x < n; {
		y := route[x].Next
		if y-x == 1 && util.IsAlphaNum(b.Runes[x]) {
			if engStart < 0 {
				engStart = x
			}
		} else {
			if engStart >= 0 {
				tokens = append(tokens, b.Token(engStart, x))
				engStart = -1
			}
			tokens = append(tokens, b.Token(x, y))
		}
		x = y
	}
	if engStart >= 0 {
		tokens = append(tokens, b.Token(engStart, n))
	}
	return tokens
}

// cutAll emits every word of the DAG. A start whose only word is already
// covered by an earlier word is skipped.
func (s *Segmenter) cutAll(b Block, tokens []Token) []Token {
	dag := BuildDAG(s.dict, b.Runes)
	lastPos := -1
	for k := range dag {
		ends := dag.Ends(k)
		if len(ends) == 1 && k > lastPos {
			tokens = append(tokens, b.Token(k, ends[0]+1))
			lastPos = ends[0]
			continue
		}
		for _, j := range ends {
			if j > k {
				tokens = append(tokens, b.Token(k, j+1))
				lastPos = j
			}
		}
	}
	return tokens
}

// addSubWords puts the dictionary 2-grams and 3-grams of each long word in
// front of it. Typical usage: for search engine indexing.
func (s *Segmenter) addSubWords(tokens []Token) []Token {
	result := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		runes := []rune(t.Text)
		for _, size := range []int{2, 3} {
			if len(runes) <= size {
				continue
			}
			for i := 0; i+size <= len(runes); i++ {
				if s.dict.ContainsRunes(runes[i : i+size]) {
					result = append(result, Token{
						Text:  string(runes[i : i+size]),
						Start: t.Start + i,
						End:   t.Start + i + size,
					})
				}
			}
		}
		result = append(result, t)
	}
	return result
}
