// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/texbind/internal/engine/gpu"
	"github.com/Faultbox/texbind/pkg/material"
)

// Upload records one image upload.
type Upload struct {
	Target     gpu.Target
	Level      int
	Width      int
	Height     int
	Compressed bool
	Format     uint32
	Texture    uint32
}

// Device is an in-memory gpu.Device. It hands out sequential texture and
// program ids and records every call by name.
type Device struct {
	Caps gpu.Capabilities

	// Errors is drained by GetError, one code per call.
	Errors []uint32
	// UploadError is queued after every compressed upload when non-zero.
	UploadError uint32
	// CompileErr, when set, fails every CompileProgram call.
	CompileErr error

	Calls    []string
	Uploads  []Upload
	Live     map[uint32]bool
	Bound    map[gpu.Target]uint32
	Units    map[int]uint32
	States   []material.RenderState
	Programs map[uint32][2]string
	Uniforms map[string]any
	Program  uint32
	Unit     int

	nextTexture uint32
	nextProgram uint32
}

// New returns a device advertising every capability.
func New() *Device {
	return NewWithCaps(gpu.Capabilities{
		S3TC:              true,
		RGTC:              true,
		BPTC:              true,
		FramebufferObject: true,
		Shaders:           true,
		MaxTextureUnits:   16,
	})
}

// NewWithCaps returns a device with the given capabilities.
func NewWithCaps(caps gpu.Capabilities) *Device {
	return &Device{
		Caps:     caps,
		Live:     make(map[uint32]bool),
		Bound:    make(map[gpu.Target]uint32),
		Units:    make(map[int]uint32),
		Programs: make(map[uint32][2]string),
		Uniforms: make(map[string]any),
	}
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Count returns how many recorded calls start with prefix.
func (d *Device) Count(prefix string) int {
	n := 0
	for _, c := range d.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls and uploads but keeps object state.
func (d *Device) Reset() {
	d.Calls = nil
	d.Uploads = nil
	d.States = nil
}

func (d *Device) Capabilities() gpu.Capabilities { return d.Caps }

func (d *Device) GenTexture() uint32 {
	d.nextTexture++
	d.Live[d.nextTexture] = true
	d.record("GenTexture %d", d.nextTexture)
	return d.nextTexture
}

func (d *Device) DeleteTexture(id uint32) {
	delete(d.Live, id)
	d.record("DeleteTexture %d", id)
}

func (d *Device) BindTexture(target gpu.Target, id uint32) {
	d.Bound[target] = id
	d.Units[d.Unit] = id
	d.record("BindTexture 0x%04X %d", uint32(target), id)
}

func (d *Device) ActiveTexture(unit int) {
	d.Unit = unit
	d.record("ActiveTexture %d", unit)
}

func (d *Device) UnbindUnits(first int) {
	for u := range d.Units {
		if u >= first {
			delete(d.Units, u)
		}
	}
	d.Unit = 0
	d.record("UnbindUnits %d", first)
}

// boundFor returns the texture bound to the binding point of an image
// target.
func (d *Device) boundFor(target gpu.Target) uint32 {
	if target >= gpu.CubeFace(0) && target <= gpu.CubeFace(5) {
		return d.Bound[gpu.TextureCubeMap]
	}
	return d.Bound[target]
}

func (d *Device) TexImage2D(target gpu.Target, level, width, height int, pix []byte) {
	d.Uploads = append(d.Uploads, Upload{
		Target: target, Level: level, Width: width, Height: height,
		Texture: d.boundFor(target),
	})
	d.record("TexImage2D 0x%04X %d %dx%d", uint32(target), level, width, height)
}

func (d *Device) CompressedTexImage2D(target gpu.Target, level int, format uint32, width, height int, data []byte) {
	d.Uploads = append(d.Uploads, Upload{
		Target: target, Level: level, Width: width, Height: height,
		Compressed: true, Format: format, Texture: d.boundFor(target),
	})
	d.record("CompressedTexImage2D 0x%04X %d 0x%04X %dx%d", uint32(target), level, format, width, height)
	if d.UploadError != 0 {
		d.Errors = append(d.Errors, d.UploadError)
	}
}

func (d *Device) SetAutoMipmap(target gpu.Target, on bool) {
	d.record("SetAutoMipmap 0x%04X %t", uint32(target), on)
}

func (d *Device) GenerateMipmap(target gpu.Target) {
	d.record("GenerateMipmap 0x%04X", uint32(target))
}

func (d *Device) SetSampler(target gpu.Target, s gpu.Sampler) {
	d.record("SetSampler 0x%04X %+v", uint32(target), s)
}

func (d *Device) GetError() uint32 {
	if len(d.Errors) == 0 {
		return 0
	}
	code := d.Errors[0]
	d.Errors = d.Errors[1:]
	return code
}

func (d *Device) ApplyState(s material.RenderState) {
	d.States = append(d.States, s)
	d.record("ApplyState")
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	d.record("CompileProgram")
	if d.CompileErr != nil {
		return 0, d.CompileErr
	}
	d.nextProgram++
	d.Programs[d.nextProgram] = [2]string{vertexSrc, fragmentSrc}
	return d.nextProgram, nil
}

func (d *Device) UseProgram(program uint32) {
	d.Program = program
	d.record("UseProgram %d", program)
}

func (d *Device) SetUniformInt(program uint32, name string, v int32) {
	d.Uniforms[name] = v
}

func (d *Device) SetUniformFloat(program uint32, name string, v float32) {
	d.Uniforms[name] = v
}

func (d *Device) SetUniformVec3(program uint32, name string, x, y, z float32) {
	d.Uniforms[name] = [3]float32{x, y, z}
}

func (d *Device) SetUniformMat4(program uint32, name string, m mgl32.Mat4) {
	d.Uniforms[name] = m
}

// LastState returns the most recently applied render state.
func (d *Device) LastState() material.RenderState {
	if len(d.States) == 0 {
		return material.RenderState{}
	}
	return d.States[len(d.States)-1]
}

var _ gpu.Device = (*Device)(nil)
