package core

import "github.com/spaghettifunk/bindless/engine/containers"

const AVG_COUNT = 30

// Metrics keeps a rolling frame time average and a once-per-second FPS
// counter.
type Metrics struct {
	msTimes            *containers.RingQueue[float64]
	msSum              float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	totalFrames        uint64
}

func NewMetrics() *Metrics {
	return &Metrics{
		msTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

func (m *Metrics) Update(frameElapsedTime float64) {
	// Rolling frame ms average over the last AVG_COUNT frames.
	frameMS := frameElapsedTime * 1000.0
	if m.msTimes.IsFull() {
		oldest, _ := m.msTimes.Dequeue()
		m.msSum -= oldest
	}
	_ = m.msTimes.Enqueue(frameMS)
	m.msSum += frameMS
	m.msAvg = m.msSum / float64(m.msTimes.Len())

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	m.frames++
	if m.accumulatedFrameMS >= 1000 {
		m.fps = float64(m.frames) * 1000 / m.accumulatedFrameMS
		m.accumulatedFrameMS = 0
		m.frames = 0
	}
	m.totalFrames++
}

// FPS is the frame rate measured over the last full second.
func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the rolling average frame time in milliseconds.
func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}

func (m *Metrics) TotalFrames() uint64 {
	return m.totalFrames
}
