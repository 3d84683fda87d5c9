package controls

import (
	"fmt"

	"github.com/spaghettifunk/bindless/engine/core"
)

// Telemetry turns frame timings into the numbers shown to the user.
type Telemetry struct {
	metrics *core.Metrics

	// Interval is the number of seconds between log lines.
	Interval float64
	sinceLog float64
}

func NewTelemetry(interval float64) *Telemetry {
	return &Telemetry{
		metrics:  core.NewMetrics(),
		Interval: interval,
	}
}

// DrawCallsPerSecond is meshes × fps × draw calls per mesh, in millions.
func DrawCallsPerSecond(meshes int, fps float64, drawCallsPerMesh int) float64 {
	return float64(meshes) * fps * float64(drawCallsPerMesh) / 1e6
}

// Update records a frame that took delta seconds and submitted meshes ×
// drawCallsPerMesh draws. It returns true when a log line was written.
func (t *Telemetry) Update(delta float64, meshes, drawCallsPerMesh int) bool {
	t.metrics.Update(delta)
	t.sinceLog += delta
	if t.sinceLog < t.Interval {
		return false
	}
	t.sinceLog = 0
	core.LogInfo("%s", t.Summary(meshes, drawCallsPerMesh))
	return true
}

func (t *Telemetry) FPS() float64 {
	return t.metrics.FPS()
}

func (t *Telemetry) Summary(meshes, drawCallsPerMesh int) string {
	fps, ms := t.metrics.Frame()
	return fmt.Sprintf("%.1f fps (%.2f ms), %.2f Mdraws/s, %d meshes x %d draws",
		fps, ms, DrawCallsPerSecond(meshes, fps, drawCallsPerMesh), meshes, drawCallsPerMesh)
}

// Title is the window title for the current numbers.
func (t *Telemetry) Title(base string, meshes, drawCallsPerMesh int) string {
	fps := t.metrics.FPS()
	return fmt.Sprintf("%s | %.0f fps | %.2f Mdraws/s", base, fps, DrawCallsPerSecond(meshes, fps, drawCallsPerMesh))
}
