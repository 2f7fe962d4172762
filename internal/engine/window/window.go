// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/texbind/internal/config"
	"github.com/Faultbox/texbind/internal/engine/gpu"
	"github.com/Faultbox/texbind/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Window wraps an SDL2 window, its OpenGL context and the device bound to
// that context.
type Window struct {
	config    config.ViewerConfig
	title     string
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	device    *gpu.GLDevice
}

// New creates a window with an OpenGL 4.1 core context and probes the
// device capabilities.
func New(title string, cfg config.ViewerConfig) (*Window, error) {
	w := &Window{config: cfg, title: title}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Attributes must be set before the window exists.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	if err := w.createContext(); err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, err
	}

	logger.Info("window created",
		zap.String("title", title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

func (w *Window) createContext() error {
	var err error
	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		return fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if w.config.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	if w.device != nil {
		w.device.Reset()
		return nil
	}
	w.device, err = gpu.NewGLDevice()
	if err != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
		return err
	}
	return nil
}

// Device returns the graphics device of the current context.
func (w *Window) Device() *gpu.GLDevice {
	return w.device
}

// RecreateContext destroys the OpenGL context and creates a new one. Every
// GPU object dies with the old context; callers must reset their handle
// generations. The device is kept and re-probed.
func (w *Window) RecreateContext() error {
	logger.Info("recreating OpenGL context")
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	return w.createContext()
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// GetSize returns the current drawable size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
