// Package header pulls display fields out of a raw message.
package header

import (
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/dhcgn/spool-pager/model"
)

const (
	PrefixTo   = "To: "
	PrefixDate = "Date: "

	// Unknown is shown when a message has no such field.
	Unknown = "Unknown"

	dateTokens = 6
)

// FindField returns the first line of msg, scanning from the top, that starts
// with prefix, trimmed of surrounding whitespace.
func FindField(msg model.Message, prefix string) (string, bool) {
	text := string(msg)
	for text != "" {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			text = ""
		}
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}

// Field is FindField with the Unknown fallback.
func Field(msg model.Message, prefix string) string {
	if line, ok := FindField(msg, prefix); ok {
		return line
	}
	return Unknown
}

// NormalizeDate keeps the first six whitespace separated tokens of a Date
// line, which drops verbose zone trailers such as "(CET)".
func NormalizeDate(line string) string {
	fields := strings.Fields(line)
	if len(fields) > dateTokens {
		fields = fields[:dateTokens]
	}
	return strings.Join(fields, " ")
}

// Date returns the normalized Date line of msg or Unknown.
func Date(msg model.Message) string {
	return NormalizeDate(Field(msg, PrefixDate))
}

// Sender returns the address on the envelope "From " line that opens msg,
// or Unknown.
func Sender(msg model.Message) string {
	line, _, _ := strings.Cut(string(msg), "\n")
	if !strings.HasPrefix(line, "From ") {
		return Unknown
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Unknown
	}
	return fields[1]
}

var decoder = &mime.WordDecoder{CharsetReader: charsetReader}

// Decode replaces RFC 2047 encoded words in a header line. Lines that fail
// to decode are returned unchanged.
func Decode(line string) string {
	decoded, err := decoder.DecodeHeader(line)
	if err != nil {
		return line
	}
	return decoded
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(strings.ToLower(charset))
	if err != nil || enc == nil {
		return input, nil
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
