package hmm

import "strings"

// Span is a word found by Segment, as rune offsets into the observation.
// Tag is the part after the dash of a compound label and empty for plain
// boundary labels.
type Span struct {
	Start int
	End   int
	Tag   string
}

// Segment decodes obs and turns the boundary labels into words: a word
// closes on E or S. A tail left open by B or M becomes one last word; final
// state restriction keeps that from happening with well-formed tables.
func (m *Model) Segment(obs []rune) []Span {
	ids, _ := m.Decode(obs)
	var spans []Span
	begin, next := 0, 0
	for i, id := range ids {
		boundary, tag := splitLabel(m.labels[id])
		switch boundary {
		case TagB:
			begin = i
		case TagE:
			spans = append(spans, Span{Start: begin, End: i + 1, Tag: tag})
			next = i + 1
		case TagS:
			spans = append(spans, Span{Start: i, End: i + 1, Tag: tag})
			next = i + 1
		}
	}
	if next < len(obs) {
		_, tag := splitLabel(m.labels[ids[next]])
		spans = append(spans, Span{Start: next, End: len(obs), Tag: tag})
	}
	return spans
}

func splitLabel(label string) (string, string) {
	boundary, tag, _ := strings.Cut(label, "-")
	return boundary, tag
}
