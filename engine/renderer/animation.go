package renderer

import "math"

const (
	// TextureFrameCount is the number of animation frames in the texture set.
	TextureFrameCount = 181
	// AnimationDuration is the length in seconds of one pass over the frames.
	AnimationDuration = 5.0

	// MaxUniformStep caps the per-frame advance of the uniform animation.
	MaxUniformStep   float32 = 0.01
	uniformStepScale float32 = 0.00005
)

// AnimationClock selects the texture frame shown at the current time.
type AnimationClock struct {
	elapsed float64
}

// Advance moves the clock by delta seconds, wrapping to 0 once it reaches
// AnimationDuration, and returns the frame index in [0, TextureFrameCount).
func (c *AnimationClock) Advance(delta float64) int {
	if delta > 0 {
		c.elapsed += delta
	}
	if c.elapsed >= AnimationDuration {
		c.elapsed = 0
	}
	return c.Frame()
}

func (c *AnimationClock) Elapsed() float64 {
	return c.elapsed
}

func (c *AnimationClock) Frame() int {
	frame := int((TextureFrameCount - 1) * c.elapsed / AnimationDuration)
	if frame >= TextureFrameCount {
		frame = TextureFrameCount - 1
	}
	return frame
}

// UniformStepper advances the per-mesh uniform time. The step scales
// inversely with the fastest frame seen so fast machines do not race.
type UniformStepper struct {
	t        float32
	minDelta float32
}

func NewUniformStepper() *UniformStepper {
	return &UniformStepper{minDelta: float32(math.Inf(1))}
}

// Step records delta and adds dt·drawCalls to t, returning the new t.
func (s *UniformStepper) Step(delta float32, drawCalls int) float32 {
	s.t += s.Delta(delta) * float32(drawCalls)
	return s.t
}

// Delta records delta and returns the step for it without advancing t.
func (s *UniformStepper) Delta(delta float32) float32 {
	if delta > 0 && delta < s.minDelta {
		s.minDelta = delta
	}
	if math.IsInf(float64(s.minDelta), 1) {
		return MaxUniformStep
	}
	return min(uniformStepScale/s.minDelta, MaxUniformStep)
}

func (s *UniformStepper) Time() float32 {
	return s.t
}
