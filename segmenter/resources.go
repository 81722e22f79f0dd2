package segmenter

import (
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/teatak/hanseg/config"
	"github.com/teatak/hanseg/dictionary"
	"github.com/teatak/hanseg/hmm"
	"github.com/teatak/hanseg/util"
)

var logger = util.Logger

// Resources is what segmenters share: the dictionary and the two HMMs.
// The models are immutable once loaded. The dictionary is mutable through
// AddWord, DeleteWord and LoadUserDict, which must not run while cuts on the
// same Resources are in flight.
type Resources struct {
	Dict *dictionary.Dictionary

	boundary *hmm.Lazy
	pos      *hmm.Lazy

	loadMu sync.Mutex
	loaded map[string]bool
}

// NewResources wires a dictionary to its models. A nil model is reported as
// not configured when it is first asked for.
func NewResources(dict *dictionary.Dictionary, boundary, pos *hmm.Lazy) *Resources {
	if dict == nil {
		dict = dictionary.NewDictionary()
	}
	if boundary == nil {
		boundary = hmm.Ready(nil)
	}
	if pos == nil {
		pos = hmm.Ready(nil)
	}
	return &Resources{
		Dict:     dict,
		boundary: boundary,
		pos:      pos,
		loaded:   map[string]bool{},
	}
}

// LoadResources loads the main dictionary and the boundary model, prepares
// the part-of-speech model to load on first use and applies the user
// dictionaries listed in cfg.
func LoadResources(cfg *config.Envelope) (*Resources, error) {
	dict := dictionary.NewDictionary()
	report, err := dict.Load(cfg.Dictionary.Main)
	if err != nil {
		return nil, err
	}
	logger.Infof("Loaded main dictionary %s", report)

	boundaryPath, posPath := cfg.HMM.Boundary, cfg.HMM.POS
	var pos *hmm.Lazy
	if posPath != "" {
		pos = hmm.Once(func() (*hmm.Model, error) { return hmm.LoadModel(posPath) })
	}
	res := NewResources(dict, hmm.Once(func() (*hmm.Model, error) { return hmm.LoadBoundary(boundaryPath) }), pos)

	seg, err := New(res)
	if err != nil {
		return nil, err
	}
	for _, path := range cfg.Dictionary.User {
		report, err := seg.LoadUserDict(path)
		if err != nil {
			return nil, err
		}
		logger.Infof("Loaded user dictionary %s", report)
	}
	return res, nil
}

// Boundary returns the boundary model, loading it on first use.
func (r *Resources) Boundary() (*hmm.Model, error) {
	return r.boundary.Model()
}

// POS returns the part-of-speech model, loading it on first use.
func (r *Resources) POS() (*hmm.Model, error) {
	return r.pos.Model()
}

func loadKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func (r *Resources) isLoaded(path string) bool {
	return r.loaded[loadKey(path)]
}

// markLoaded records path once it has been opened.
func (r *Resources) markLoaded(path string) {
	r.loaded[loadKey(path)] = true
}

var (
	defaultOnce sync.Once
	defaultRes  *Resources
	defaultErr  error
)

// Default returns resources loaded once from the discovered configuration
// (see config.Read). Code that needs an isolated dictionary should build its
// own Resources instead.
func Default() (*Resources, error) {
	defaultOnce.Do(func() {
		cfg, err := config.Read("")
		if err != nil {
			defaultErr = errors.Wrap(err, "default resources")
			return
		}
		defaultRes, defaultErr = LoadResources(cfg)
	})
	return defaultRes, defaultErr
}
