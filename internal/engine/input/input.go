// Package input handles SDL2 input events for the material viewer.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Input collects the events of one frame.
type Input struct {
	keys []sdl.Scancode

	// Accumulated mouse motion while the left button is held.
	DragX, DragY float32
	// Accumulated wheel movement, positive away from the user.
	Wheel float32

	Resized bool
	Quit    bool

	dragging bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{keys: make([]sdl.Scancode, 0, 8)}
}

// Update polls SDL events. It returns true once the viewer should quit.
func (i *Input) Update() bool {
	i.keys = i.keys[:0]
	i.DragX, i.DragY, i.Wheel = 0, 0, 0
	i.Resized = false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.Quit
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.Quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.Resized = true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			i.keys = append(i.keys, e.Keysym.Scancode)
		}

	case *sdl.MouseButtonEvent:
		if e.Button == sdl.BUTTON_LEFT {
			i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
		}

	case *sdl.MouseMotionEvent:
		if i.dragging {
			i.DragX += float32(e.XRel)
			i.DragY += float32(e.YRel)
		}

	case *sdl.MouseWheelEvent:
		i.Wheel += float32(e.Y)
	}
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, k := range i.keys {
		if k == scancode {
			return true
		}
	}
	return false
}
