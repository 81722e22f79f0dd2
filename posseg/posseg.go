package posseg

import (
	"github.com/pkg/errors"
	lop "github.com/samber/lo/parallel"
	"github.com/teatak/hanseg/dictionary"
	"github.com/teatak/hanseg/hmm"
	"github.com/teatak/hanseg/segmenter"
	"github.com/teatak/hanseg/util"
)

// Tags given to pieces of unknown runs that are not Han.
const (
	TagNumber  = "m"
	TagEnglish = "eng"
)

// Tagger cuts text into words and gives each a part-of-speech tag.
type Tagger struct {
	dict  *dictionary.Dictionary
	model *hmm.Model
}

// NewTagger creates a tagger over res, loading the part-of-speech model if needed.
func NewTagger(res *segmenter.Resources) (*Tagger, error) {
	model, err := res.POS()
	if err != nil {
		return nil, errors.Wrap(err, "load pos model")
	}
	return &Tagger{dict: res.Dict, model: model}, nil
}

// PosCut segments text in accurate mode and tags every token. Dictionary
// words take their tag from the word-tag table. With useHMM, unknown runs
// are cut and tagged by the part-of-speech model.
func (t *Tagger) PosCut(text string, useHMM bool) []segmenter.Token {
	t.dict.Tags().Merge()

	runes := []rune(text)
	tokens := make([]segmenter.Token, 0, len(runes)/2+1)
	for _, block := range segmenter.Blocks(runes) {
		if !block.Word {
			for _, part := range block.SplitSpace() {
				tokens = append(tokens, part.Tagged(0, len(part.Runes), dictionary.DefaultTag))
			}
			continue
		}
		if useHMM {
			tokens = t.cutDAG(block, tokens)
		} else {
			tokens = t.cutDAGNoHMM(block, tokens)
		}
	}
	return tokens
}

// PosCutMany tags every text concurrently. The result is in input order.
func (t *Tagger) PosCutMany(texts []string, useHMM bool) [][]segmenter.Token {
	return lop.Map(texts, func(text string, _ int) []segmenter.Token {
		return t.PosCut(text, useHMM)
	})
}

func (t *Tagger) word(b segmenter.Block, start, end int) segmenter.Token {
	tok := b.Token(start, end)
	tok.Tag = t.dict.Tags().Lookup(tok.Text, dictionary.DefaultTag)
	return tok
}

func (t *Tagger) cutDAG(b segmenter.Block, tokens []segmenter.Token) []segmenter.Token {
	route := segmenter.SolveRoute(t.dict, b.Runes, segmenter.BuildDAG(t.dict, b.Runes))
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
				tokens = t.flushBuffer(b, bufStart, x, tokens)
				bufStart = -1
			}
			tokens = append(tokens, t.word(b, x, y))
		}
		x = y
	}
	if bufStart >= 0 {
		tokens = t.flushBuffer(b, bufStart, n, tokens)
	}
	return tokens
}

func (t *Tagger) flushBuffer(b segmenter.Block, start, end int, tokens []segmenter.Token) []segmenter.Token {
	buf := b.Runes[start:end]
	if len(buf) == 1 || t.dict.ContainsRunes(buf) {
		return append(tokens, t.word(b, start, end))
	}
	for _, run := range segmenter.SplitRuns(buf) {
		from, to := start+run.Start, start+run.End
		switch run.Kind {
		case segmenter.RunHan:
			for _, span := range t.model.Segment(buf[run.Start:run.End]) {
				tag := span.Tag
				if tag == "" {
					tag = dictionary.DefaultTag
				}
				tokens = append(tokens, b.Tagged(from+span.Start, from+span.End, tag))
			}
		case segmenter.RunNumber:
			tokens = append(tokens, b.Tagged(from, to, TagNumber))
		case segmenter.RunAlphaNum:
			tokens = append(tokens, b.Tagged(from, to, TagEnglish))
		default:
			tokens = append(tokens, b.Tagged(from, to, dictionary.DefaultTag))
		}
	}
	return tokens
}

func (t *Tagger) cutDAGNoHMM(b segmenter.Block, tokens []segmenter.Token) []segmenter.Token {
	route := segmenter.SolveRoute(t.dict, b.Runes, segmenter.BuildDAG(t.dict, b.Runes))
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
				tokens = append(tokens, b.Tagged(engStart, x, TagEnglish))
				engStart = -1
			}
			tokens = append(tokens, t.word(b, x, y))
		}
		x = y
	}
	if engStart >= 0 {
		tokens = append(tokens, b.Tagged(engStart, n, TagEnglish))
	}
	return tokens
}
