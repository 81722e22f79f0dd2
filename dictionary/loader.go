package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/teatak/hanseg/util"
)

var logger = util.Logger

// LineOutcome describes a line that was not loaded.
type LineOutcome struct {
	Line   int
	Text   string
	Reason string
}

// LoadReport summarizes a dictionary load. Bad lines never abort a load;
// they are listed in Skipped.
type LoadReport struct {
	Source  string
	Kept    int
	Skipped []LineOutcome
}

// Skip records a line that was not loaded.
func (r *LoadReport) Skip(line int, text, reason string) {
	r.Skipped = append(r.Skipped, LineOutcome{Line: line, Text: text, Reason: reason})
	logger.WithFields(logrus.Fields{
		"source": r.Source,
		"line":   line,
		"text":   text,
	}).Warnf("skipped dictionary line: %s", reason)
}

// String is a one-line summary suitable for logs.
func (r *LoadReport) String() string {
	return fmt.Sprintf("%s: %d kept, %d skipped", r.Source, r.Kept, len(r.Skipped))
}

// Load loads the main dictionary from a file.
// File format: word frequency [tag] (whitespace separated)
func (d *Dictionary) Load(path string) (*LoadReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dictionary %s", path)
	}
	defer file.Close()
	return d.LoadReader(file, path)
}

// LoadReader loads main dictionary lines from r.
func (d *Dictionary) LoadReader(r io.Reader, source string) (*LoadReport, error) {
	report := &LoadReport{Source: source}

	d.mu.Lock()
	defer d.mu.Unlock()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			report.Skip(lineNo, line, err.Error())
			continue
		}
		d.trie.Insert(entry.Word, entry.Freq)
		if entry.Tag != "" {
			d.tags.set(entry.Word, entry.Tag)
		}
		report.Kept++
	}
	if err := scanner.Err(); err != nil {
		return report, errors.Wrapf(err, "read dictionary %s", source)
	}
	logger.WithField("source", source).Debugf("dictionary loaded: %s", report)
	return report, nil
}

// ParseLine parses a main dictionary line: word, frequency and an optional tag.
func ParseLine(line string) (Entry, error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return Entry{}, errors.New("missing frequency")
	}
	if len(parts) > 3 {
		return Entry{}, errors.Errorf("expected at most 3 fields, got %d", len(parts))
	}
	freq, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Entry{}, errors.Errorf("invalid frequency %q", parts[1])
	}
	entry := Entry{Word: parts[0], Freq: freq}
	if len(parts) == 3 {
		entry.Tag = parts[2]
	}
	return entry, nil
}

// ParseUserLine parses a user dictionary line: word[ frequency][ tag].
// A zero Freq means the frequency was not given.
func ParseUserLine(line string) (Entry, error) {
	parts := strings.Fields(line)
	switch len(parts) {
	case 0:
		return Entry{}, ErrEmptyWord
	case 1:
		return Entry{Word: parts[0]}, nil
	case 2:
		if freq, err := strconv.ParseUint(parts[1], 10, 63); err == nil {
			return Entry{Word: parts[0], Freq: freq}, nil
		}
		if isTag(parts[1]) {
			return Entry{Word: parts[0], Tag: parts[1]}, nil
		}
		return Entry{}, errors.Errorf("invalid frequency %q", parts[1])
	case 3:
		freq, err := strconv.ParseUint(parts[1], 10, 63)
		if err != nil {
			return Entry{}, errors.Errorf("invalid frequency %q", parts[1])
		}
		return Entry{Word: parts[0], Freq: freq, Tag: parts[2]}, nil
	}
	return Entry{}, errors.Errorf("expected at most 3 fields, got %d", len(parts))
}

func isTag(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return s != ""
}
