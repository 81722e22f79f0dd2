package hmm

import "github.com/pkg/errors"

// ErrNoEmissions is returned for a boundary model without an emission table.
var ErrNoEmissions = errors.New("hmm: boundary model has no emission table")

// Start and transition log probabilities of the four-state boundary model.
// A word can only start on B or S, and only E and S may be followed by a new word.
var (
	boundaryStart = map[string]float64{
		TagB: -0.26268660809250016,
		TagE: -3.14e100,
		TagM: -3.14e100,
		TagS: -1.4652633398537678,
	}
	boundaryTrans = map[string]map[string]float64{
		TagB: {TagE: -0.510825623765990, TagM: -0.916290731874155},
		TagE: {TagB: -0.5897149736854513, TagS: -0.8085250474669937},
		TagM: {TagE: -0.33344856811948514, TagM: -1.2603623820268226},
		TagS: {TagB: -0.7211965654669841, TagS: -0.6658631448798212},
	}
)

// BoundaryTables returns the B/M/E/S start and transition tables with the
// given emission table.
func BoundaryTables(emit map[string]map[string]float64) Tables {
	t := Tables{
		Start: make(map[string]float64, len(boundaryStart)),
		Trans: make(map[string]map[string]float64, len(boundaryTrans)),
		Emit:  emit,
	}
	for k, v := range boundaryStart {
		t.Start[k] = v
	}
	for from, row := range boundaryTrans {
		t.Trans[from] = make(map[string]float64, len(row))
		for to, p := range row {
			t.Trans[from][to] = p
		}
	}
	return t
}

// Boundary builds the B/M/E/S model used to split unknown runs into words.
func Boundary(emit map[string]map[string]float64) (*Model, error) {
	return newBoundary(BoundaryTables(emit))
}

func newBoundary(t Tables) (*Model, error) {
	if !hasEmissions(t.Emit) {
		return nil, ErrNoEmissions
	}
	m, err := New(t)
	if err != nil {
		return nil, err
	}
	m.finalOnly = true
	return m, nil
}

func hasEmissions(emit map[string]map[string]float64) bool {
	for _, row := range emit {
		if len(row) > 0 {
			return true
		}
	}
	return false
}
