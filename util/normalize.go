package util

import (
	"github.com/longbridgeapp/opencc"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// Normalizer rewrites input before it is segmented.
type Normalizer interface {
	Normalize(text string) (string, error)
}

// TextNormalizer applies NFKC (full-width Latin and digits become ASCII so they
// join alphanumeric runs) and optionally converts traditional Han to simplified.
type TextNormalizer struct {
	nfkc bool
	t2s  *opencc.OpenCC
}

// NewTextNormalizer builds a normalizer. With both options off Normalize is the identity.
func NewTextNormalizer(nfkc, t2s bool) (*TextNormalizer, error) {
	n := &TextNormalizer{nfkc: nfkc}
	if t2s {
		cc, err := opencc.New("t2s")
		if err != nil {
			return nil, errors.Wrap(err, "load opencc t2s")
		}
		n.t2s = cc
	}
	return n, nil
}

func (n *TextNormalizer) Normalize(text string) (string, error) {
	s := text
	if n.nfkc {
		s = norm.NFKC.String(s)
	}
	if n.t2s != nil {
		converted, err := n.t2s.Convert(s)
		if err != nil {
			return "", errors.Wrap(err, "convert t2s")
		}
		s = converted
	}
	return s, nil
}
