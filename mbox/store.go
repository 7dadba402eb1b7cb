package mbox

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/dhcgn/spool-pager/filter"
	"github.com/dhcgn/spool-pager/model"
	"github.com/dhcgn/spool-pager/stats"
)

// Format selects how a spool file is cut into messages.
type Format string

const (
	// FormatBlankLine splits at "From " lines that follow a blank line and
	// keeps every byte of the file.
	FormatBlankLine Format = "blankline"
	// FormatMboxrd uses a strict mbox reader; envelope lines are dropped.
	FormatMboxrd Format = "mboxrd"
)

// ParseFormat maps a flag value to a Format. The empty string selects the default.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatBlankLine:
		return FormatBlankLine, nil
	case FormatMboxrd:
		return FormatMboxrd, nil
	}
	return "", fmt.Errorf("unknown mailbox format %q", s)
}

var ErrNotText = errors.New("mailbox is not valid UTF-8 text")

// ParseError reports a spool file that could not be read or split.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mailbox %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Options struct {
	Format    Format
	Filter    *filter.Filter
	Collector *stats.Collector
	Logger    *slog.Logger
}

// Store is the ordered, immutable list of messages browsed in one session.
type Store struct {
	messages []model.Message
	lines    []int
	skipped  []model.Skipped
	filtered int
}

// FromPath loads every message of a single spool file.
func FromPath(path string, opts Options) (*Store, error) {
	s := &Store{}
	if err := s.load(path, filepath.Base(path), opts); err != nil {
		return nil, err
	}
	return s, nil
}

// FromDirectory loads every spool file in dir, in directory order, except the
// entries named in skip. Entries that cannot be read or parsed are recorded in
// Skipped and do not stop the load; only an unreadable dir is an error.
func FromDirectory(dir string, skip []string, opts Options) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read mail directory: %w", err)
	}

	skipSet := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipSet[name] = struct{}{}
	}

	s := &Store{}
	for _, entry := range entries {
		name := entry.Name()
		if _, ok := skipSet[name]; ok {
			if opts.Logger != nil {
				opts.Logger.Debug("mailbox skipped by request", "name", name)
			}
			continue
		}

		if err := s.load(filepath.Join(dir, name), name, opts); err != nil {
			s.skipped = append(s.skipped, model.Skipped{Name: name, Err: err})
			opts.Collector.Record(stats.Event{Type: stats.EventTypeSkipped, Source: name, Err: err})
			if opts.Logger != nil {
				opts.Logger.Debug("mailbox ignored", "name", name, "err", err)
			}
		}
	}

	return s, nil
}

func (s *Store) load(path, source string, opts Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return &ParseError{Path: path, Err: ErrNotText}
	}

	var messages []model.Message
	switch opts.Format {
	case FormatMboxrd:
		messages, err = ReadMboxrd(bytes.NewReader(data))
		if err != nil {
			return &ParseError{Path: path, Err: err}
		}
	default:
		messages = Split(string(data))
	}

	kept := 0
	for _, msg := range messages {
		if !opts.Filter.Allows(msg) {
			continue
		}
		s.messages = append(s.messages, msg)
		s.lines = append(s.lines, len(msg.Lines()))
		kept++
	}

	if dropped := len(messages) - kept; dropped > 0 {
		s.filtered += dropped
		opts.Collector.Record(stats.Event{Type: stats.EventTypeFiltered, Source: source, Messages: dropped})
	}
	opts.Collector.Record(stats.Event{Type: stats.EventTypeLoaded, Source: source, Messages: kept})
	if opts.Logger != nil {
		opts.Logger.Debug("mailbox loaded", "source", source, "messages", kept, "filtered", len(messages)-kept)
	}

	return nil
}

// Len returns the number of messages.
func (s *Store) Len() int {
	return len(s.messages)
}

// Get returns message i; i must be in [0, Len()).
func (s *Store) Get(i int) model.Message {
	return s.messages[i]
}

// LineCount returns the number of display lines of message i.
func (s *Store) LineCount(i int) int {
	return s.lines[i]
}

func (s *Store) Messages() []model.Message {
	return append([]model.Message(nil), s.messages...)
}

// Skipped lists the directory entries that failed to load.
func (s *Store) Skipped() []model.Skipped {
	return append([]model.Skipped(nil), s.skipped...)
}

// Filtered returns how many messages the filter removed.
func (s *Store) Filtered() int {
	return s.filtered
}
