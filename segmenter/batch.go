package segmenter

import (
	lop "github.com/samber/lo/parallel"
)

// CutMany cuts every text concurrently. The result is in input order.
func (s *Segmenter) CutMany(texts []string, mode Mode, useHMM bool) [][]Token {
	return lop.Map(texts, func(text string, _ int) []Token {
		return s.Cut(text, mode, useHMM)
	})
}
