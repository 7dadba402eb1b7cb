// Package session runs the interactive pager loop on a terminal screen.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/dhcgn/spool-pager/navigator"
	"github.com/dhcgn/spool-pager/render"
)

var ErrNoMail = errors.New("no mail")

const deleteNotice = "deleting messages is not implemented"

// Store is what the loop needs from the mail store.
type Store interface {
	navigator.Bounds
	render.Source
}

type Options struct {
	DecodeHeaders bool
	Logger        *slog.Logger
	// NewScreen opens the terminal. Defaults to tcell.NewScreen.
	NewScreen func() (tcell.Screen, error)
}

// Page opens the terminal screen, runs the pager on it and restores the
// terminal on every return path. An empty store is rejected with ErrNoMail
// before the terminal is touched.
func Page(store Store, opts Options) (navigator.State, error) {
	if store.Len() == 0 {
		return navigator.State{}, ErrNoMail
	}

	newScreen := opts.NewScreen
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	screen, err := newScreen()
	if err != nil {
		return navigator.State{}, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return navigator.State{}, fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return Run(screen, store, opts)
}

// Run processes events from an initialised screen until the user quits or
// the screen is finalised. The first frame is drawn before any key arrives.
func Run(screen tcell.Screen, store Store, opts Options) (navigator.State, error) {
	if store.Len() == 0 {
		return navigator.State{}, ErrNoMail
	}

	var (
		state  navigator.State
		effect navigator.Effect
		cmd    = navigator.Noop
	)
	for {
		state, effect = navigator.Step(state, cmd, store)
		if state.Done {
			return state, nil
		}

		notice := ""
		if effect == navigator.EffectDelete {
			notice = deleteNotice
			if opts.Logger != nil {
				opts.Logger.Info("delete requested", "message", state.Message+1)
			}
		}

		_, height := screen.Size()
		frame := render.Build(store, state, height, render.Options{
			DecodeHeaders: opts.DecodeHeaders,
			Notice:        notice,
		})
		render.Draw(screen, frame)

		var ok bool
		if cmd, ok = nextCommand(screen); !ok {
			return state, nil
		}
	}
}

// nextCommand blocks for the next event that should produce a frame. It
// returns false once the screen has been finalised.
func nextCommand(screen tcell.Screen) (navigator.Command, bool) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return navigator.Noop, false
		case *tcell.EventKey:
			return KeyCommand(ev), true
		case *tcell.EventResize:
			screen.Sync()
			return navigator.Noop, true
		}
	}
}

// KeyCommand maps a key press to a navigator command.
func KeyCommand(ev *tcell.EventKey) navigator.Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return navigator.Quit
	case tcell.KeyPgUp:
		return navigator.PrevMessage
	case tcell.KeyPgDn:
		return navigator.NextMessage
	case tcell.KeyHome:
		return navigator.FirstMessage
	case tcell.KeyEnd:
		return navigator.LastMessage
	case tcell.KeyUp:
		return navigator.LineUp
	case tcell.KeyDown:
		return navigator.LineDown
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return navigator.Quit
		case 'd':
			return navigator.Delete
		}
	}
	return navigator.Other
}
