package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

var (
	initOnce sync.Once
	initErr  error
)

// Initialize starts PortAudio once per process and returns the matching
// terminate func. Calling the returned func more than once is safe.
func Initialize() (func(), error) {
	initOnce.Do(func() {
		if err := portaudio.Initialize(); err != nil {
			initErr = fmt.Errorf("initialize portaudio: %w", err)
		}
	})
	if initErr != nil {
		return func() {}, initErr
	}
	var once sync.Once
	return func() {
		once.Do(func() { _ = portaudio.Terminate() })
	}, nil
}
