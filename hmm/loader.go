package hmm

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/teatak/hanseg/util"
)

var logger = util.Logger

// ErrModelNotConfigured is returned by a Lazy without a loader.
var ErrModelNotConfigured = errors.New("hmm: model not configured")

// LoadTables reads the JSON tables of a model from path.
func LoadTables(path string) (Tables, error) {
	var t Tables
	data, err := os.ReadFile(path)
	if err != nil {
		return t, errors.Wrapf(err, "read hmm tables %s", path)
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return t, errors.Wrapf(err, "parse hmm tables %s", path)
	}
	return t, nil
}

// LoadModel reads a complete model (start, trans, emit and state_tab) from path.
func LoadModel(path string) (*Model, error) {
	t, err := LoadTables(path)
	if err != nil {
		return nil, err
	}
	m, err := New(t)
	if err != nil {
		return nil, errors.Wrapf(err, "build hmm model %s", path)
	}
	logger.WithField("path", path).Debugf("hmm model loaded with %d states", m.States())
	return m, nil
}

// LoadBoundary builds the boundary model from the emission table in path.
// Start and transition tables found there override the built-in ones.
func LoadBoundary(path string) (*Model, error) {
	if path == "" {
		return nil, errors.Wrap(ErrModelNotConfigured, "boundary model")
	}
	t, err := LoadTables(path)
	if err != nil {
		return nil, err
	}
	full := BoundaryTables(t.Emit)
	if len(t.Start) > 0 {
		full.Start = t.Start
	}
	if len(t.Trans) > 0 {
		full.Trans = t.Trans
	}
	full.StateTab = t.StateTab
	m, err := newBoundary(full)
	if err != nil {
		return nil, errors.Wrapf(err, "build boundary model %s", path)
	}
	logger.WithField("path", path).Debug("boundary model loaded")
	return m, nil
}

// Lazy loads a model on first use. Concurrent first calls share one load and
// every later call returns the same model, or the same error.
type Lazy struct {
	once  sync.Once
	load  func() (*Model, error)
	model *Model
	err   error
}

// Once wraps load.
func Once(load func() (*Model, error)) *Lazy {
	return &Lazy{load: load}
}

// Ready wraps a model that is already loaded.
func Ready(m *Model) *Lazy {
	l := &Lazy{model: m}
	if m == nil {
		l.err = ErrModelNotConfigured
	}
	l.once.Do(func() {})
	return l
}

// Model returns the loaded model.
func (l *Lazy) Model() (*Model, error) {
	l.once.Do(func() {
		if l.load == nil {
			l.err = ErrModelNotConfigured
			return
		}
		l.model, l.err = l.load()
	})
	return l.model, l.err
}
