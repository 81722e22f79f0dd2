package segmenter

import "github.com/teatak/hanseg/util"

// Block is a maximal run of text of one class. Word blocks hold Han,
// ASCII alphanumerics and joiners and go through the dictionary; the rest
// is split on whitespace only.
type Block struct {
	Runes  []rune
	Offset int
	Word   bool
}

// Token returns the token for Runes[start:end].
func (b Block) Token(start, end int) Token {
	return Token{
		Text:  string(b.Runes[start:end]),
		Start: b.Offset + start,
		End:   b.Offset + end,
	}
}

// Tagged is Token with a tag.
func (b Block) Tagged(start, end int, tag string) Token {
	t := b.Token(start, end)
	t.Tag = tag
	return t
}

// Blocks splits text into word and non-word blocks.
func Blocks(runes []rune) []Block {
	return splitBy(runes, 0, util.IsWordChar)
}

// HanBlocks splits text into Han blocks and the rest. Full mode uses it so
// Latin and digits never go through the dictionary.
func HanBlocks(runes []rune) []Block {
	return splitBy(runes, 0, util.IsHan)
}

// SplitSpace splits a non-word block into whitespace runs and other runs.
// Word is true for the runs that are not whitespace.
func (b Block) SplitSpace() []Block {
	return splitBy(b.Runes, b.Offset, func(r rune) bool { return !util.IsSpace(r) })
}

func splitBy(runes []rune, offset int, class func(rune) bool) []Block {
	var blocks []Block
	if len(runes) == 0 {
		return blocks
	}

	start := 0
	inClass := class(runes[0])
	for i, r := range runes {
		if c := class(r); c != inClass {
			blocks = append(blocks, Block{Runes: runes[start:i], Offset: offset + start, Word: inClass})
			start = i
			inClass = c
		}
	}
	blocks = append(blocks, Block{Runes: runes[start:], Offset: offset + start, Word: inClass})
	return blocks
}

// RunKind classifies the pieces of an unknown run.
type RunKind int

const (
	RunHan      RunKind = iota // RunHan goes through an HMM.
	RunNumber                  // RunNumber is digits and decimal points.
	RunAlphaNum                // RunAlphaNum is ASCII letters and digits starting with a letter.
	RunOther                   // RunOther is a single rune of anything else.
)

// Run is a piece of an unknown run, as offsets into it.
type Run struct {
	Start int
	End   int
	Kind  RunKind
}

// SplitRuns cuts an unknown run into Han runs, number runs, alphanumeric runs
// and single other runes. A number run ends where a letter follows it, so
// "123abc" is a number and a word while "abc123" is one word.
func SplitRuns(runes []rune) []Run {
	var runs []Run
	for i := 0; i < len(runes); {
		j := i + 1
		kind := RunOther
		switch r := runes[i]; {
		case util.IsHan(r):
			kind = RunHan
			for j < len(runes) && util.IsHan(runes[j]) {
				j++
			}
		case util.IsDigit(r):
			kind = RunNumber
			for j < len(runes) && util.IsDigit(runes[j]) {
				j++
			}
		case util.IsAlphaNum(r):
			kind = RunAlphaNum
			for j < len(runes) && util.IsAlphaNum(runes[j]) {
				j++
			}
		}
		runs = append(runs, Run{Start: i, End: j, Kind: kind})
		i = j
	}
	return runs
}
