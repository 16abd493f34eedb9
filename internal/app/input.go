package app

import (
	"context"
	"os"
	"sync"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"
)

type inputEvent int

const (
	inputEventToggle inputEvent = iota
	inputEventTheme
	inputEventRandomize
	inputEventQuit
)

// keyEvent maps a key press to an action.
func keyEvent(char rune, key keyboard.Key) (inputEvent, bool) {
	switch {
	case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
		return inputEventQuit, true
	case key == keyboard.KeySpace || char == ' ':
		return inputEventToggle, true
	}
	switch char {
	case 'q', 'Q':
		return inputEventQuit, true
	case 't', 'T':
		return inputEventTheme, true
	case 'r', 'R':
		return inputEventRandomize, true
	}
	return 0, false
}

func (a *App) handleInput(evt inputEvent, quit context.CancelFunc) {
	switch evt {
	case inputEventToggle:
		a.toggleAnimation()
	case inputEventTheme:
		a.cycleTheme()
	case inputEventRandomize:
		a.randomizeVisuals()
	case inputEventQuit:
		quit()
	}
}

// startInputListener reads shortcuts from the terminal. It does nothing
// when stdin is not a terminal.
func (a *App) startInputListener(ctx context.Context, quit context.CancelFunc) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		a.log.Println("keyboard shortcuts disabled: stdin is not a terminal")
		return
	}
	if err := keyboard.Open(); err != nil {
		a.log.Printf("keyboard input disabled: %v", err)
		return
	}

	closeOnce := &sync.Once{}
	closeKeyboard := func() { closeOnce.Do(func() { _ = keyboard.Close() }) }
	go func() {
		<-ctx.Done()
		closeKeyboard()
	}()

	go func() {
		defer closeKeyboard()
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			if ctx.Err() != nil {
				return
			}
			evt, ok := keyEvent(char, key)
			if !ok {
				continue
			}
			a.handleInput(evt, quit)
			if evt == inputEventQuit {
				return
			}
		}
	}()
}
