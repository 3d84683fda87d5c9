package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func demoCamera() *Camera {
	return NewCamera(mgl32.Vec3{-2.221, 2, 15.859}, mgl32.Vec3{0, 2, 0}, 45, 0.01, 100)
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d", i)
	}
}

func TestCameraStartsAtEye(t *testing.T) {
	c := demoCamera()
	assertVec(t, mgl32.Vec3{-2.221, 2, 15.859}, c.GetPosition())
	assert.InDelta(t, 16.0138, c.Distance(), 1e-3)

	want := mgl32.LookAtV(mgl32.Vec3{-2.221, 2, 15.859}, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 1, 0})
	assert.True(t, c.GetView().ApproxEqualThreshold(want, 1e-4))
	assert.False(t, c.IsDirty)
}

func TestCameraRotateKeepsDistance(t *testing.T) {
	c := demoCamera()
	d := c.Distance()
	c.Rotate(120, -40)
	assert.True(t, c.IsDirty)
	assert.InDelta(t, d, c.GetPosition().Sub(c.Target).Len(), 1e-4)
	assert.NotEqual(t, mgl32.Vec3{-2.221, 2, 15.859}, c.GetPosition())
}

func TestCameraPitchIsClamped(t *testing.T) {
	c := demoCamera()
	c.Rotate(0, 1e6)
	pos := c.GetPosition()
	assert.Less(t, pos.Y()-c.Target.Y(), c.Distance())
	// The view stays well formed looking almost straight down.
	assert.False(t, c.GetView().ApproxEqual(mgl32.Mat4{}))
}

func TestCameraZoom(t *testing.T) {
	c := demoCamera()
	d := c.Distance()
	c.Zoom(1)
	assert.InDelta(t, d*0.9, c.Distance(), 1e-4)
	c.Zoom(-1)
	assert.InDelta(t, d, c.Distance(), 1e-4)

	c.Zoom(1000)
	assert.Equal(t, MinDistance, c.Distance())
	c.Zoom(-1000)
	assert.InDelta(t, 90, c.Distance(), 1e-3)
}

func TestCameraViewport(t *testing.T) {
	c := demoCamera()
	c.SetViewport(1280, 720)
	assert.InDelta(t, 1280.0/720.0, c.Aspect, 1e-6)
	c.SetViewport(0, 720)
	assert.InDelta(t, 1280.0/720.0, c.Aspect, 1e-6)

	want := mgl32.Perspective(mgl32.DegToRad(45), 1280.0/720.0, 0.01, 100)
	assert.True(t, c.GetProjection().ApproxEqual(want))
}
