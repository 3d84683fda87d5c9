package components

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// RotateSpeed is radians per pixel of mouse drag.
	RotateSpeed float32 = 0.005
	// ZoomStep is the fraction of the distance covered per wheel notch.
	ZoomStep float32 = 0.1

	MinDistance float32 = 0.1

	maxPitch = math32.Pi/2 - 0.01
)

/**
 * @brief An orbit camera circling a target point. Dragging changes
 * yaw and pitch, the wheel changes the distance to the target.
 */
type Camera struct {
	/** @brief The point the camera orbits and looks at. */
	Target mgl32.Vec3
	/** @brief World up, +Y. */
	Up mgl32.Vec3

	yaw      float32
	pitch    float32
	distance float32

	FOV    float32
	Near   float32
	Far    float32
	Aspect float32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix mgl32.Mat4
}

// NewCamera places the camera at eye looking at target. fov is the
// vertical field of view in degrees.
func NewCamera(eye, target mgl32.Vec3, fov, near, far float32) *Camera {
	c := &Camera{
		Up:     mgl32.Vec3{0, 1, 0},
		FOV:    fov,
		Near:   near,
		Far:    far,
		Aspect: 1,
	}
	c.LookAt(eye, target)
	return c
}

// LookAt resets the orbit so that the camera sits at eye.
func (c *Camera) LookAt(eye, target mgl32.Vec3) {
	offset := eye.Sub(target)
	c.Target = target
	c.distance = math32.Max(offset.Len(), MinDistance)
	c.yaw = math32.Atan2(offset.X(), offset.Z())
	c.pitch = mgl32.Clamp(math32.Asin(offset.Y()/c.distance), -maxPitch, maxPitch)
	c.IsDirty = true
}

func (c *Camera) GetPosition() mgl32.Vec3 {
	cp := math32.Cos(c.pitch)
	return c.Target.Add(mgl32.Vec3{
		c.distance * cp * math32.Sin(c.yaw),
		c.distance * math32.Sin(c.pitch),
		c.distance * cp * math32.Cos(c.yaw),
	})
}

func (c *Camera) Distance() float32 {
	return c.distance
}

// Rotate orbits by a mouse drag of dx, dy pixels.
func (c *Camera) Rotate(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	c.yaw -= dx * RotateSpeed
	c.pitch = mgl32.Clamp(c.pitch+dy*RotateSpeed, -maxPitch, maxPitch)
	c.IsDirty = true
}

// Zoom moves towards the target for positive notches and away for
// negative ones, staying between MinDistance and the far plane.
func (c *Camera) Zoom(notches float32) {
	if notches == 0 {
		return
	}
	d := c.distance * math32.Pow(1-ZoomStep, notches)
	c.distance = mgl32.Clamp(d, MinDistance, c.Far*0.9)
	c.IsDirty = true
}

// SetViewport updates the aspect ratio. Degenerate sizes are ignored.
func (c *Camera) SetViewport(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) GetView() mgl32.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = mgl32.LookAtV(c.GetPosition(), c.Target, c.Up)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) GetProjection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}
