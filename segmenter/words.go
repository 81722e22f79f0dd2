package segmenter

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/teatak/hanseg/dictionary"
)

// AddWord adds word to the dictionary. A frequency of zero or less asks
// SuggestFreq for one that makes the word win over its current split.
func (s *Segmenter) AddWord(word string, freq int64, tag string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return dictionary.ErrEmptyWord
	}
	f := uint64(freq)
	if freq <= 0 {
		f = s.SuggestFreq(word)
	}
	return s.dict.Add(word, f, tag)
}

// DeleteWord removes word from the dictionary. Unknown words are ignored.
func (s *Segmenter) DeleteWord(word string) {
	s.dict.Delete(word)
}

// SuggestFreq returns the frequency word needs to be kept whole, judged
// against the way it is cut now without the HMM.
func (s *Segmenter) SuggestFreq(word string) uint64 {
	return s.dict.SuggestFreq(word, s.CutWords(word, ModeAccurate, false))
}

// LoadUserDict adds the words of a user dictionary file, one per line as
// "word[ frequency][ tag]". Lines that do not parse are skipped and reported.
// A file is only loaded once per Resources.
func (s *Segmenter) LoadUserDict(path string) (*dictionary.LoadReport, error) {
	s.res.loadMu.Lock()
	defer s.res.loadMu.Unlock()

	report := &dictionary.LoadReport{Source: path}
	if s.res.isLoaded(path) {
		logger.WithField("path", path).Debug("user dictionary already loaded")
		return report, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open user dictionary %s", path)
	}
	defer file.Close()
	s.res.markLoaded(path)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		entry, err := dictionary.ParseUserLine(line)
		if err == nil {
			err = s.AddWord(entry.Word, int64(entry.Freq), entry.Tag)
		}
		if err != nil {
			report.Skip(lineNo, line, err.Error())
			continue
		}
		report.Kept++
	}
	if err := scanner.Err(); err != nil {
		return report, errors.Wrapf(err, "read user dictionary %s", path)
	}
	return report, nil
}
