package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/teatak/hanseg/config"
	"github.com/teatak/hanseg/posseg"
	"github.com/teatak/hanseg/segmenter"
	"github.com/teatak/hanseg/util"
)

// engine is what every command loads before it reads text.
type engine struct {
	cfg        *config.Envelope
	seg        *segmenter.Segmenter
	normalizer util.Normalizer
}

func loadEngine() *engine {
	cfg, err := config.Read(configFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to read configuration")
	}
	res, err := segmenter.LoadResources(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load dictionary")
	}
	seg, err := segmenter.New(res)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load boundary model")
	}
	normalizer, err := util.NewTextNormalizer(cfg.Normalize.NFKC, cfg.Normalize.T2S)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create normalizer")
	}
	return &engine{cfg: cfg, seg: seg, normalizer: normalizer}
}

func (e *engine) tagger() *posseg.Tagger {
	tagger, err := posseg.NewTagger(e.seg.Resources())
	if err != nil {
		logger.WithError(err).Fatal("Failed to load pos model")
	}
	return tagger
}

func (e *engine) normalize(text string) string {
	normalized, err := e.normalizer.Normalize(text)
	if err != nil {
		logger.WithError(err).Warn("Normalization failed, using raw text")
		return text
	}
	return normalized
}

// useHMM resolves the --no-hmm flag against the configured default.
func (e *engine) useHMM(noHMM bool) bool {
	return e.cfg.Segment.HMM && !noHMM
}

// format joins tokens for display, tagged tokens as word/tag.
func format(tokens []segmenter.Token, sep string, noPunct bool) string {
	if noPunct {
		tokens = lo.Filter(tokens, func(t segmenter.Token, _ int) bool {
			return !util.IsPunctuation(t.Text) && !util.IsBlank(t.Text)
		})
	}
	parts := lo.Map(tokens, func(t segmenter.Token, _ int) string {
		if t.Tag != "" {
			return t.Text + "/" + t.Tag
		}
		return t.Text
	})
	return strings.Join(parts, sep)
}

// run applies process to the joined args, or to every non-empty line of
// stdin when there are none.
func run(args []string, out io.Writer, process func(string) string) error {
	if len(args) > 0 {
		_, err := fmt.Fprintln(out, process(strings.Join(args, " ")))
		return err
	}

	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		fmt.Fprintln(os.Stderr, "Enter text to segment (Ctrl+D to exit):")
	}
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, err := fmt.Fprintln(out, process(text)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
