package mbox

import (
	"strings"

	"github.com/dhcgn/spool-pager/model"
)

const (
	fromPrefix = "From "
	separator  = "\n\n"
)

type scanState int

const (
	stateInBody scanState = iota
	stateAfterBlankLine
)

// Boundaries returns the byte offsets of every message boundary in text.
// An offset p is a boundary when text[p:p+2] is "\n\n" and the line that
// follows starts with "From ". A "From " line that is not preceded by a blank
// line is body text. The first line of the file is never a boundary.
func Boundaries(text string) []int {
	var (
		offsets []int
		state   = stateInBody
	)

	for start := 0; start < len(text); {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		line := text[start:end]

		switch {
		case state == stateAfterBlankLine && strings.HasPrefix(line, fromPrefix):
			offsets = append(offsets, start-len(separator))
			state = stateInBody
		case line == "" && start > 0:
			// start > 0 guarantees the blank line is itself preceded by '\n'.
			state = stateAfterBlankLine
		default:
			state = stateInBody
		}

		start = end + 1
	}

	return offsets
}

// Split cuts a raw spool into messages at the offsets reported by Boundaries.
// The "\n\n" in front of each boundary belongs to neither message, so
// joining the messages with "\n\n" gives back text unchanged.
func Split(text string) []model.Message {
	if text == "" {
		return nil
	}

	bounds := Boundaries(text)
	messages := make([]model.Message, 0, len(bounds)+1)
	prev := 0
	for _, b := range bounds {
		messages = append(messages, model.Message(text[prev:b]))
		prev = b + len(separator)
	}
	messages = append(messages, model.Message(text[prev:]))

	return messages
}
