package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dhcgn/spool-pager/model"
	"github.com/dhcgn/spool-pager/navigator"
)

type fakeSource []model.Message

func (f fakeSource) Len() int                { return len(f) }
func (f fakeSource) Get(i int) model.Message { return f[i] }

var messages = fakeSource{
	"\n\nFrom alice Mon Mar  4 09:12:44 2024\nTo: bob@example.org\nDate: Mon, 4 Mar 2024 09:12:44 +0100 (CET)\n\nline 1\nline 2\nline 3\n\n",
	"From carol\nSubject: none\n\nshort\n",
	"From dave\nTo: =?UTF-8?Q?J=C3=BCrgen?= <j@example.org>\n\nhi\n",
}

func TestBuild(t *testing.T) {
	f := Build(messages, navigator.State{Message: 0}, 6, Options{})

	if want := "message 1/3    " + Help; f.Status != want {
		t.Errorf("Status = %q, want %q", f.Status, want)
	}
	if want := "To: bob@example.org    Date: Mon, 4 Mar 2024 09:12:44"; f.Meta != want {
		t.Errorf("Meta = %q, want %q", f.Meta, want)
	}
	want := []string{"From alice Mon Mar  4 09:12:44 2024", "To: bob@example.org", "Date: Mon, 4 Mar 2024 09:12:44 +0100 (CET)", ""}
	if strings.Join(f.Body, "|") != strings.Join(want, "|") {
		t.Errorf("Body = %q, want %q", f.Body, want)
	}
}

func TestBuildScrolledAndShort(t *testing.T) {
	f := Build(messages, navigator.State{Message: 0, Line: 5}, 10, Options{})
	if strings.Join(f.Body, "|") != "line 2|line 3" {
		t.Errorf("Body = %q", f.Body)
	}

	f = Build(messages, navigator.State{Message: 1}, 10, Options{})
	if f.Meta != "Unknown    Unknown" {
		t.Errorf("Meta = %q, want Unknown fallbacks", f.Meta)
	}
	if len(f.Body) != 4 {
		t.Errorf("Body has %d lines, want 4", len(f.Body))
	}
}

func TestBuildTinyViewport(t *testing.T) {
	for _, height := range []int{0, 1, 2} {
		if f := Build(messages, navigator.State{}, height, Options{}); len(f.Body) != 0 {
			t.Errorf("height %d: Body = %q, want none", height, f.Body)
		}
	}
}

func TestBuildArmedAndNotice(t *testing.T) {
	f := Build(messages, navigator.State{Message: 2, Armed: true}, 5, Options{DecodeHeaders: true, Notice: "deleting is not supported"})

	if !strings.HasPrefix(f.Status, "message 3/3    "+ConfirmDel) {
		t.Errorf("Status = %q", f.Status)
	}
	if !strings.HasSuffix(f.Status, "deleting is not supported") {
		t.Errorf("Status = %q, want notice", f.Status)
	}
	if !strings.HasPrefix(f.Meta, "To: Jürgen <j@example.org>") {
		t.Errorf("Meta = %q, want decoded To", f.Meta)
	}
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func row(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestDraw(t *testing.T) {
	screen := newScreen(t, 20, 5)

	Draw(screen, Frame{
		Status: "message 1/2    help text that is long",
		Meta:   "To: x",
		Body:   []string{"a\tb", "second", "third", "not drawn"},
	})

	want := []string{
		"message 1/2    help ",
		"To: x",
		"a       b",
		"second",
		"third",
	}
	for y, w := range want {
		if got := row(screen, y); got != strings.TrimRight(w, " ") {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}

	_, _, style, _ := screen.GetContent(0, 0)
	if style.GetUnderlineStyle() == tcell.UnderlineStyleNone {
		t.Error("status row should be underlined")
	}
}

func TestDrawClearsPreviousFrame(t *testing.T) {
	screen := newScreen(t, 20, 4)

	Draw(screen, Frame{Status: "s", Meta: "m", Body: []string{"long old line", "old"}})
	Draw(screen, Frame{Status: "s", Meta: "m", Body: []string{"new"}})

	if got := row(screen, 2); got != "new" {
		t.Errorf("row 2 = %q, want %q", got, "new")
	}
	if got := row(screen, 3); got != "" {
		t.Errorf("row 3 = %q, want empty", got)
	}
}

func TestExpandTabs(t *testing.T) {
	if got := expandTabs("ab\tc\t"); got != "ab      c       " {
		t.Errorf("expandTabs() = %q", got)
	}
}
