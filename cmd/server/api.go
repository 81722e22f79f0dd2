package main

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/labstack/echo/v5"
	"github.com/samber/lo"
	"github.com/teatak/hanseg/dictionary"
	"github.com/teatak/hanseg/posseg"
	"github.com/teatak/hanseg/segmenter"
	"github.com/teatak/hanseg/store"
	"github.com/teatak/hanseg/util"
)

// api serves segmentation over HTTP. Cuts share a read lock; dictionary
// changes take the write lock so no cut sees a half-applied change.
type api struct {
	mu         sync.RWMutex
	seg        *segmenter.Segmenter
	tagger     *posseg.Tagger // nil when no pos model is configured
	store      *store.Store
	normalizer util.Normalizer
	defaultHMM bool
}

type cutRequest struct {
	Text  string   `json:"text"`
	Texts []string `json:"texts"`
	Mode  string   `json:"mode"` // accurate, full, search
	HMM   *bool    `json:"hmm"`
}

type cutResponse struct {
	Tokens  []segmenter.Token   `json:"tokens,omitempty"`
	Batches [][]segmenter.Token `json:"batches,omitempty"`
}

type wordRequest struct {
	Word string `json:"word"`
	Freq int64  `json:"freq"`
	Tag  string `json:"tag"`
}

type wordsRequest struct {
	Words []wordRequest `json:"words"`
}

type wordsResponse struct {
	Words []dictionary.Entry `json:"words"`
}

func (a *api) register(g *echo.Group) {
	g.POST("/cut", a.Cut)
	g.POST("/pos", a.Pos)
	g.POST("/words", a.AddWords)
	g.DELETE("/words/:word", a.DeleteWord)
}

func handleGenericError(c *echo.Context, err error, status int) error {
	logger.WithError(err).WithField("status", status).Error("Error handling request")
	return c.JSON(status, map[string]string{"status": err.Error()})
}

func badRequest(c *echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"status": message})
}

func parseMode(s string) (segmenter.Mode, bool) {
	switch strings.ToLower(s) {
	case "", "accurate":
		return segmenter.ModeAccurate, true
	case "full", "all":
		return segmenter.ModeFull, true
	case "search":
		return segmenter.ModeSearch, true
	}
	return 0, false
}

func (a *api) useHMM(flag *bool) bool {
	if flag == nil {
		return a.defaultHMM
	}
	return *flag
}

func (a *api) normalize(text string) string {
	normalized, err := a.normalizer.Normalize(text)
	if err != nil {
		logger.WithError(err).Warn("Normalization failed, using raw text")
		return text
	}
	return normalized
}

// Cut segments text, or every entry of texts in order.
func (a *api) Cut(c *echo.Context) error {
	var req cutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		return badRequest(c, "unknown mode "+req.Mode)
	}
	useHMM := a.useHMM(req.HMM)

	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(req.Texts) > 0 {
		texts := lo.Map(req.Texts, func(t string, _ int) string { return a.normalize(t) })
		return c.JSON(http.StatusOK, cutResponse{Batches: a.seg.CutMany(texts, mode, useHMM)})
	}
	return c.JSON(http.StatusOK, cutResponse{Tokens: a.seg.Cut(a.normalize(req.Text), mode, useHMM)})
}

// Pos segments and tags text, or every entry of texts in order.
func (a *api) Pos(c *echo.Context) error {
	if a.tagger == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "pos model not configured"})
	}
	var req cutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	useHMM := a.useHMM(req.HMM)

	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(req.Texts) > 0 {
		texts := lo.Map(req.Texts, func(t string, _ int) string { return a.normalize(t) })
		return c.JSON(http.StatusOK, cutResponse{Batches: a.tagger.PosCutMany(texts, useHMM)})
	}
	return c.JSON(http.StatusOK, cutResponse{Tokens: a.tagger.PosCut(a.normalize(req.Text), useHMM)})
}

// AddWords adds words to the dictionary and records them in the store with
// the frequency they ended up with.
func (a *api) AddWords(c *echo.Context) error {
	var req wordsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Words) == 0 {
		return badRequest(c, "no words")
	}
	for _, w := range req.Words {
		if strings.TrimSpace(w.Word) == "" {
			return badRequest(c, dictionary.ErrEmptyWord.Error())
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	dict := a.seg.Resources().Dict
	added := make([]dictionary.Entry, 0, len(req.Words))
	for _, w := range req.Words {
		word := strings.TrimSpace(w.Word)
		if err := a.seg.AddWord(word, w.Freq, w.Tag); err != nil {
			return handleGenericError(c, err, http.StatusInternalServerError)
		}
		freq, _ := dict.Frequency(word)
		added = append(added, dictionary.Entry{Word: word, Freq: freq, Tag: w.Tag})
	}
	if a.store != nil {
		if err := a.store.Put(c.Request().Context(), added...); err != nil {
			return handleGenericError(c, err, http.StatusInternalServerError)
		}
	}
	return c.JSON(http.StatusOK, wordsResponse{Words: added})
}

// DeleteWord removes a word from the dictionary.
func (a *api) DeleteWord(c *echo.Context) error {
	word, err := url.PathUnescape(c.Param("word"))
	if err != nil || strings.TrimSpace(word) == "" {
		return badRequest(c, "invalid word")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.seg.DeleteWord(word)
	if a.store != nil {
		if err := a.store.Delete(c.Request().Context(), word); err != nil {
			return handleGenericError(c, err, http.StatusInternalServerError)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
