package app

import (
	"context"
	"sync"

	"github.com/eiannone/keyboard"
)

type command int

const (
	cmdQuit command = iota
	cmdOrbitLeft
	cmdOrbitRight
	cmdOrbitUp
	cmdOrbitDown
	cmdZoomIn
	cmdZoomOut
	cmdTogglePause
	cmdTogglePost
)

// keyImpulse is the angular impulse applied by one arrow key press.
const keyImpulse = 0.01

func commandForKey(char rune, key keyboard.Key) (command, bool) {
	switch {
	case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
		return cmdQuit, true
	case key == keyboard.KeyArrowLeft:
		return cmdOrbitLeft, true
	case key == keyboard.KeyArrowRight:
		return cmdOrbitRight, true
	case key == keyboard.KeyArrowUp:
		return cmdOrbitUp, true
	case key == keyboard.KeyArrowDown:
		return cmdOrbitDown, true
	case key == keyboard.KeySpace || char == ' ':
		return cmdTogglePause, true
	}
	switch char {
	case 'q', 'Q':
		return cmdQuit, true
	case '+', '=', 'w', 'W':
		return cmdZoomIn, true
	case '-', '_', 's', 'S':
		return cmdZoomOut, true
	case 'a', 'A':
		return cmdOrbitLeft, true
	case 'd', 'D':
		return cmdOrbitRight, true
	case 'p', 'P':
		return cmdTogglePost, true
	}
	return 0, false
}

// startKeyboard forwards key presses as commands until ctx ends. Commands
// are applied on the render loop, never from the reader goroutine.
func (a *App) startKeyboard(ctx context.Context) {
	if err := keyboard.Open(); err != nil {
		a.log.Printf("keyboard input disabled: %v", err)
		a.commands = nil
		return
	}

	commands := make(chan command, 16)
	a.commands = commands

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer close(commands)
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			cmd, ok := commandForKey(char, key)
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case commands <- cmd:
			}
			if cmd == cmdQuit {
				return
			}
		}
	}()
}

// apply runs cmd against the scene and reports whether the loop should stop.
func (a *App) apply(cmd command) bool {
	cam := a.scene.Camera()
	switch cmd {
	case cmdQuit:
		return true
	case cmdOrbitLeft:
		cam.Impulse(-keyImpulse, 0)
	case cmdOrbitRight:
		cam.Impulse(keyImpulse, 0)
	case cmdOrbitUp:
		cam.Impulse(0, -keyImpulse)
	case cmdOrbitDown:
		cam.Impulse(0, keyImpulse)
	case cmdZoomIn:
		cam.Scroll(-1)
	case cmdZoomOut:
		cam.Scroll(1)
	case cmdTogglePause:
		if a.playback != nil {
			paused := a.playback.TogglePause()
			a.log.Printf("playback paused=%v", paused)
		}
	case cmdTogglePost:
		a.scene.SetPostProcess(!a.scene.PostProcess())
	}
	return false
}
