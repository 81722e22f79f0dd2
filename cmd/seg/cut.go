package main

import (
	"github.com/spf13/cobra"
	"github.com/teatak/hanseg/segmenter"
)

func modeFromFlags(all, search bool) segmenter.Mode {
	switch {
	case all:
		return segmenter.ModeFull
	case search:
		return segmenter.ModeSearch
	default:
		return segmenter.ModeAccurate
	}
}

func newCutCommand() *cobra.Command {
	var (
		all     bool
		search  bool
		noHMM   bool
		noPunct bool
		sep     string
	)
	command := &cobra.Command{
		Use:   "cut [text...]",
		Short: "Cut text into words, from the arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEngine()
			mode := modeFromFlags(all, search)
			useHMM := e.useHMM(noHMM)
			return run(args, cmd.OutOrStdout(), func(text string) string {
				return format(e.seg.Cut(e.normalize(text), mode, useHMM), sep, noPunct)
			})
		},
	}
	command.Flags().BoolVarP(&all, "all", "a", false, "full mode: every dictionary word, overlapping")
	command.Flags().BoolVarP(&search, "search", "s", false, "search mode: add sub-words of long words")
	command.Flags().BoolVar(&noHMM, "no-hmm", false, "do not re-segment unknown runs with the HMM")
	command.Flags().BoolVar(&noPunct, "no-punct", false, "drop punctuation and whitespace tokens")
	command.Flags().StringVar(&sep, "sep", " / ", "token separator")
	return command
}

func newPosCommand() *cobra.Command {
	var (
		noHMM   bool
		noPunct bool
		sep     string
	)
	command := &cobra.Command{
		Use:   "pos [text...]",
		Short: "Cut text into words tagged with their part of speech",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEngine()
			tagger := e.tagger()
			useHMM := e.useHMM(noHMM)
			return run(args, cmd.OutOrStdout(), func(text string) string {
				return format(tagger.PosCut(e.normalize(text), useHMM), sep, noPunct)
			})
		},
	}
	command.Flags().BoolVar(&noHMM, "no-hmm", false, "do not tag unknown runs with the HMM")
	command.Flags().BoolVar(&noPunct, "no-punct", false, "drop punctuation and whitespace tokens")
	command.Flags().StringVar(&sep, "sep", " ", "token separator")
	return command
}
