// Package viewer implements the interactive material viewer: it shows one
// library material at a time on a preview mesh.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/texbind/internal/config"
	"github.com/Faultbox/texbind/internal/engine/binder"
	"github.com/Faultbox/texbind/internal/engine/camera"
	"github.com/Faultbox/texbind/internal/engine/input"
	"github.com/Faultbox/texbind/internal/engine/renderer"
	"github.com/Faultbox/texbind/internal/engine/screenshot"
	"github.com/Faultbox/texbind/internal/engine/window"
	"github.com/Faultbox/texbind/internal/library"
	"github.com/Faultbox/texbind/internal/logger"
	"github.com/Faultbox/texbind/pkg/material"
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	lib     *library.Library
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	binder   *binder.Binder
	input    *input.Input
	camera   *camera.OrbitCamera
	shots    *screenshot.Capture

	materials *selection
	current   material.Material
	shape     renderer.Shape
	white     bool
	// flags are surface flags forced onto the current material.
	flags    material.PolyFlags
	lightDir mgl32.Vec3
	// capture requests a screenshot of the next rendered frame.
	capture bool
}

// New opens the viewer window for lib.
func New(cfg *config.Config, lib *library.Library) (*Viewer, error) {
	v := &Viewer{
		cfg:       cfg,
		lib:       lib,
		input:     input.New(),
		camera:    camera.NewOrbitCamera(),
		shots:     screenshot.New("screenshots"),
		materials: newSelection(lib.Names(), cfg.Library.Material),
		lightDir:  mgl32.Vec3{-0.4, -1, -0.6}.Normalize(),
	}

	var err error
	v.window, err = window.New("matview", cfg.Viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.GetSize()
	v.renderer = renderer.New(w, h)
	v.binder = binder.New(binder.NewRegistry(v.window.Device()), binder.NewDefaults(), lib.Wraps(), binder.Options{
		Profile:       cfg.Render.Profile,
		UseShaders:    cfg.Render.UseShaders,
		Lighting:      cfg.Render.Lighting,
		Mipmaps:       cfg.Render.Mipmaps,
		ForceSoftware: cfg.Render.ForceSoftware,
	})
	v.selectMaterial(v.materials.Current())

	logger.Info("viewer initialized",
		zap.Stringer("profile", cfg.Render.Profile),
		zap.Int("materials", len(lib.Names())),
		zap.Bool("shaders", cfg.Render.UseShaders),
	)
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}
		if err := v.handleInput(); err != nil {
			return err
		}

		v.render()
		present(&v.capture, v.screenshot, v.window.SwapBuffers)

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handleInput() error {
	in := v.input

	if in.Resized {
		v.renderer.Resize(v.window.GetSize())
	}
	if in.DragX != 0 || in.DragY != 0 {
		v.camera.HandleDrag(in.DragX, in.DragY)
	}
	if in.Wheel != 0 {
		v.camera.HandleZoom(in.Wheel)
	}

	switch {
	case in.IsKeyPressed(sdl.SCANCODE_ESCAPE):
		v.running = false
	case in.IsKeyPressed(sdl.SCANCODE_RIGHT), in.IsKeyPressed(sdl.SCANCODE_N):
		v.selectMaterial(v.materials.Step(1))
	case in.IsKeyPressed(sdl.SCANCODE_LEFT), in.IsKeyPressed(sdl.SCANCODE_P):
		v.selectMaterial(v.materials.Step(-1))
	case in.IsKeyPressed(sdl.SCANCODE_W):
		v.white = !v.white
		v.updateTitle()
	case in.IsKeyPressed(sdl.SCANCODE_T):
		v.flags ^= material.PolyTranslucent
		v.updateTitle()
	case in.IsKeyPressed(sdl.SCANCODE_M):
		v.shape = v.shape.Next()
		v.updateTitle()
	case in.IsKeyPressed(sdl.SCANCODE_R):
		return v.recreateContext()
	case in.IsKeyPressed(sdl.SCANCODE_F12):
		v.capture = true
	}
	return nil
}

func (v *Viewer) selectMaterial(name string) {
	v.current = nil
	if name != "" {
		m, err := v.lib.Material(name)
		if err != nil {
			logger.Warn("cannot select material", zap.String("material", name), zap.Error(err))
		} else {
			v.current = m
		}
	}
	v.updateTitle()
}

func (v *Viewer) updateTitle() {
	name := v.materials.Current()
	if name == "" {
		name = "(empty library)"
	}
	title := fmt.Sprintf("matview - %s [%s, %s]", name, v.cfg.Render.Profile, v.shape)
	if v.white {
		title += " white"
	} else if v.current != nil && material.IsTranslucent(v.wrapped()) {
		title += " translucent"
	}
	v.window.SetTitle(title)
}

// recreateContext replaces the GL context. Every texture, program and
// buffer is created again on the next frame.
func (v *Viewer) recreateContext() error {
	v.renderer.Close()
	if err := v.window.RecreateContext(); err != nil {
		return fmt.Errorf("recreating context: %w", err)
	}
	v.binder.ResetContext()
	v.renderer.Recreate()
	return nil
}

func (v *Viewer) render() {
	v.renderer.Begin()

	w, h := v.renderer.Size()
	model := mgl32.Ident4()
	mvp := v.camera.ProjectionMatrix(w, h).Mul4(v.camera.ViewMatrix()).Mul4(model)

	v.binder.SetLight(v.lightDir, v.camera.Position())
	v.binder.SetTransform(mvp, model)
	switch {
	case v.white:
		v.binder.BindDefault(true)
	case v.current == nil:
		v.binder.BindDefault(false)
	default:
		v.binder.BindFlags(v.current, v.flags)
	}
	v.renderer.Draw(v.shape)
}

// present ends a frame. A pending capture reads the back buffer, which is
// undefined once the buffers are swapped.
func present(capture *bool, shoot, swap func()) {
	if *capture {
		*capture = false
		shoot()
	}
	swap()
}

// wrapped returns the current material with the forced flags applied.
func (v *Viewer) wrapped() material.Material {
	return v.lib.Wrap(v.current, v.flags)
}

// screenshot saves the back buffer; it must run before the buffers swap.
func (v *Viewer) screenshot() {
	w, h := v.renderer.Size()
	if w <= 0 || h <= 0 {
		return
	}
	pix := v.window.Device().ReadPixels(w, h)
	path, err := v.shots.Save(v.materials.Current(), pix, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases GPU resources and closes the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
