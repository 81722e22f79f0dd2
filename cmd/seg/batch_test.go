package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teatak/hanseg/config"
	"github.com/teatak/hanseg/dictionary"
	"github.com/teatak/hanseg/hmm"
	"github.com/teatak/hanseg/segmenter"
	"github.com/teatak/hanseg/util"
)

func newTestEngine(t *testing.T) *engine {
	t.Helper()
	dict := dictionary.FromEntries(
		dictionary.Entry{Word: "南京市", Freq: 100},
		dictionary.Entry{Word: "长江大桥", Freq: 100},
		dictionary.Entry{Word: "南京", Freq: 10},
	)
	boundary, err := hmm.Boundary(map[string]map[string]float64{hmm.TagS: {"中": -1}})
	require.NoError(t, err)
	seg, err := segmenter.New(segmenter.NewResources(dict, hmm.Ready(boundary), nil))
	require.NoError(t, err)
	normalizer, err := util.NewTextNormalizer(true, false)
	require.NoError(t, err)
	return &engine{cfg: config.Default(), seg: seg, normalizer: normalizer}
}

func TestFormat(t *testing.T) {
	tokens := []segmenter.Token{
		{Text: "南京", Tag: "ns"},
		{Text: "，", Tag: "x"},
		{Text: " "},
		{Text: "ok", Tag: "eng"},
	}
	assert.Equal(t, "南京/ns|，/x| |ok/eng", format(tokens, "|", false))
	assert.Equal(t, "南京/ns|ok/eng", format(tokens, "|", true))
}

func TestBatcher(t *testing.T) {
	e := newTestEngine(t)
	b := &batcher{engine: e, mode: segmenter.ModeAccurate, useHMM: false, sep: " ", chunk: 2}

	input := strings.Join([]string{"南京市长江大桥", "", "南京ＡＢＣ", "南京"}, "\n")
	var out bytes.Buffer
	count, err := b.run(strings.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, "南京市 长江大桥\n\n南京 ABC\n南京\n", out.String())
}

func TestModeFromFlags(t *testing.T) {
	assert.Equal(t, segmenter.ModeAccurate, modeFromFlags(false, false))
	assert.Equal(t, segmenter.ModeFull, modeFromFlags(true, false))
	assert.Equal(t, segmenter.ModeSearch, modeFromFlags(false, true))

	e := newTestEngine(t)
	assert.True(t, e.useHMM(false))
	assert.False(t, e.useHMM(true))
}
