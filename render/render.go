// Package render turns the pager state into a screen frame and draws it.
package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dhcgn/spool-pager/header"
	"github.com/dhcgn/spool-pager/model"
	"github.com/dhcgn/spool-pager/navigator"
)

// HeaderRows is the number of fixed rows drawn above the message body.
const HeaderRows = 2

const (
	Help       = "PgUp/PgDn=prev/next message  Up/Down=scroll  Home/End=first/last  d=delete  q/Esc=quit"
	ConfirmDel = "Press d again to delete this message, any other key cancels"

	tabWidth = 8
	gap      = "    "
)

// Source is the read side of the mail store.
type Source interface {
	Len() int
	Get(i int) model.Message
}

type Options struct {
	// DecodeHeaders decodes RFC 2047 words in the To: line.
	DecodeHeaders bool
	// Notice is appended to the status line for one frame.
	Notice string
}

// Frame is everything drawn for one state: two header rows and the body rows.
type Frame struct {
	Status string
	Meta   string
	Body   []string
}

// Build computes the frame for state s on a screen of the given height.
// src must not be empty.
func Build(src Source, s navigator.State, height int, opts Options) Frame {
	msg := src.Get(s.Message)

	status := fmt.Sprintf("message %d/%d%s", s.Message+1, src.Len(), gap)
	if s.Armed {
		status += ConfirmDel
	} else {
		status += Help
	}
	if opts.Notice != "" {
		status += gap + opts.Notice
	}

	to := header.Field(msg, header.PrefixTo)
	if opts.DecodeHeaders {
		to = header.Decode(to)
	}

	return Frame{
		Status: status,
		Meta:   to + gap + header.Date(msg),
		Body:   window(msg.Lines(), s.Line, height-HeaderRows),
	}
}

// window returns at most n lines starting at line from.
func window(lines []string, from, n int) []string {
	if n <= 0 || from >= len(lines) {
		return nil
	}
	from = max(from, 0)
	return lines[from:min(from+n, len(lines))]
}

var (
	statusStyle = tcell.StyleDefault.Underline(true)
	metaStyle   = tcell.StyleDefault.Bold(true)
	bodyStyle   = tcell.StyleDefault
)

// Draw writes the whole frame at fixed rows and flushes the screen. Lines
// wider than the screen are cut, never wrapped.
func Draw(screen tcell.Screen, f Frame) {
	screen.Clear()
	width, height := screen.Size()

	drawLine(screen, 0, width, f.Status, statusStyle)
	drawLine(screen, 1, width, f.Meta, metaStyle)
	for i, line := range f.Body {
		row := HeaderRows + i
		if row >= height {
			break
		}
		drawLine(screen, row, width, line, bodyStyle)
	}

	screen.Show()
}

func drawLine(screen tcell.Screen, row, width int, text string, style tcell.Style) {
	x := 0
	for _, r := range expandTabs(text) {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > width {
			return
		}
		screen.SetContent(x, row, r, nil, style)
		x += w
	}
	for ; x < width; x++ {
		screen.SetContent(x, row, ' ', nil, style)
	}
}

func expandTabs(text string) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}
	var sb strings.Builder
	col := 0
	for _, r := range text {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}
