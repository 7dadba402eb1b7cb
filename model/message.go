package model

import "strings"

// Message is the exact text of one mail (headers and body) as it appears in
// the spool file. It is never trimmed or otherwise rewritten once stored.
type Message string

// Skipped records a mailbox entry that could not be loaded in directory mode.
type Skipped struct {
	Name string
	Err  error
}

// Lines returns the display lines of the message: the text trimmed of
// surrounding whitespace and split on line feeds, without carriage returns.
// A message that is blank after trimming has no lines.
func (m Message) Lines() []string {
	text := strings.TrimSpace(string(m))
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
