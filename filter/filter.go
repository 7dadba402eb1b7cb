package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dhcgn/spool-pager/model"
)

// Options captures the regex lists used to narrow the messages shown by the pager.
type Options struct {
	IncludeHeader []string
	IncludeBody   []string
	ExcludeHeader []string
	ExcludeBody   []string
}

// Empty reports whether no pattern is configured.
func (o Options) Empty() bool {
	return len(o.IncludeHeader) == 0 && len(o.IncludeBody) == 0 &&
		len(o.ExcludeHeader) == 0 && len(o.ExcludeBody) == 0
}

// Filter holds compiled patterns matched against a message's header block and body.
type Filter struct {
	include rules
	exclude rules
}

type rules struct {
	header []*regexp.Regexp
	body   []*regexp.Regexp
}

func (r rules) active() bool {
	return len(r.header) > 0 || len(r.body) > 0
}

func (r rules) match(header, body string) bool {
	return matchAny(r.header, header) || matchAny(r.body, body)
}

// New compiles the patterns in opts. Include and exclude lists cannot be mixed.
func New(opts Options) (*Filter, error) {
	var (
		f   Filter
		err error
	)
	if f.include.header, err = compilePatterns(opts.IncludeHeader); err != nil {
		return nil, fmt.Errorf("compile include-header pattern: %w", err)
	}
	if f.include.body, err = compilePatterns(opts.IncludeBody); err != nil {
		return nil, fmt.Errorf("compile include-body pattern: %w", err)
	}
	if f.exclude.header, err = compilePatterns(opts.ExcludeHeader); err != nil {
		return nil, fmt.Errorf("compile exclude-header pattern: %w", err)
	}
	if f.exclude.body, err = compilePatterns(opts.ExcludeBody); err != nil {
		return nil, fmt.Errorf("compile exclude-body pattern: %w", err)
	}

	if f.include.active() && f.exclude.active() {
		return nil, fmt.Errorf("include and exclude filters are mutually exclusive")
	}

	return &f, nil
}

// Allows returns true if the message passes the filter. A nil filter allows everything.
func (f *Filter) Allows(msg model.Message) bool {
	if f == nil {
		return true
	}
	header, body := SplitMessage(msg)

	if f.include.active() {
		return f.include.match(header, body)
	}
	if f.exclude.active() {
		return !f.exclude.match(header, body)
	}
	return true
}

// SplitMessage splits a message into its header block and body at the first
// blank line. The envelope "From " line stays part of the header block.
func SplitMessage(msg model.Message) (header, body string) {
	raw := string(msg)
	if raw == "" {
		return "", ""
	}

	if idx := strings.Index(raw, "\r\n\r\n"); idx >= 0 {
		return raw[:idx], raw[idx+4:]
	}
	if idx := strings.Index(raw, "\n\n"); idx >= 0 {
		return raw[:idx], raw[idx+2:]
	}

	return raw, ""
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
