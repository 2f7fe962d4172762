// Package camera provides the orbit camera of the material viewer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians
	Yaw      float32 // radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	// Perspective
	FOV       float32 // degrees
	NearPlane float32
	FarPlane  float32
}

// NewOrbitCamera creates an orbit camera framing a unit-sized object at the
// origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        3.0,
		Pitch:           0.35,
		Yaw:             0.6,
		MinDistance:     1.2,
		MaxDistance:     20.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.01,
		ZoomSensitivity: 0.1,
		FOV:             45,
		NearPlane:       0.05,
		FarPlane:        100,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp, sp := gomath.Cos(float64(c.Pitch)), gomath.Sin(float64(c.Pitch))
	cy, sy := gomath.Cos(float64(c.Yaw)), gomath.Sin(float64(c.Yaw))
	offset := mgl32.Vec3{
		float32(cp * sy),
		float32(sp),
		float32(cp * cy),
	}
	return c.Center.Add(offset.Mul(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for a viewport of the
// given size.
func (c *OrbitCamera) ProjectionMatrix(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.NearPlane, c.FarPlane)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}
