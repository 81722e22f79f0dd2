package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/teatak/hanseg/segmenter"
)

func newBatchCommand() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		chunk      int
		all        bool
		search     bool
		noHMM      bool
		sep        string
	)
	command := &cobra.Command{
		Use:   "batch",
		Short: "Cut a file line by line, writing one cut line per input line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if chunk <= 0 {
				return errors.Errorf("chunk must be positive, got %d", chunk)
			}
			e := loadEngine()

			in := io.Reader(os.Stdin)
			if inputPath != "-" {
				f, err := os.Open(inputPath)
				if err != nil {
					return errors.Wrap(err, "open input")
				}
				defer f.Close()
				in = f
			}
			out := cmd.OutOrStdout()
			if outputPath != "-" {
				f, err := os.Create(outputPath)
				if err != nil {
					return errors.Wrap(err, "create output")
				}
				defer f.Close()
				out = f
			}

			b := &batcher{
				engine: e,
				mode:   modeFromFlags(all, search),
				useHMM: e.useHMM(noHMM),
				sep:    sep,
				chunk:  chunk,
			}
			count, err := b.run(in, out)
			if err != nil {
				return err
			}
			logger.Infof("Done. Processed %d lines.", count)
			return nil
		},
	}
	command.Flags().StringVarP(&inputPath, "input", "i", "-", "input file, - for stdin")
	command.Flags().StringVarP(&outputPath, "output", "o", "-", "output file, - for stdout")
	command.Flags().IntVar(&chunk, "chunk", 1000, "lines cut concurrently at a time")
	command.Flags().BoolVarP(&all, "all", "a", false, "full mode")
	command.Flags().BoolVarP(&search, "search", "s", false, "search mode")
	command.Flags().BoolVar(&noHMM, "no-hmm", false, "do not use the HMM")
	command.Flags().StringVar(&sep, "sep", " ", "token separator")
	return command
}

type batcher struct {
	*engine
	mode   segmenter.Mode
	useHMM bool
	sep    string
	chunk  int
}

// run cuts the lines of in chunk by chunk. Output lines keep input order;
// empty input lines give empty output lines.
func (b *batcher) run(in io.Reader, out io.Writer) (int, error) {
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lines := make([]string, 0, b.chunk)
	count := 0

	flush := func() error {
		texts := lo.Map(lines, func(line string, _ int) string {
			return b.normalize(strings.TrimSpace(line))
		})
		for _, tokens := range b.seg.CutMany(texts, b.mode, b.useHMM) {
			if _, err := fmt.Fprintln(writer, format(tokens, b.sep, false)); err != nil {
				return errors.Wrap(err, "write output")
			}
		}
		count += len(lines)
		lines = lines[:0]
		logger.Debugf("Processed %d lines...", count)
		return nil
	}

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) == b.chunk {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return count, errors.Wrap(err, "read input")
	}
	if len(lines) > 0 {
		if err := flush(); err != nil {
			return count, err
		}
	}
	return count, writer.Flush()
}
