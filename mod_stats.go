package townview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gekko3d/townview/render/core"
)

// FrameStats counts frames and reports the frame rate once per Interval when
// debug logging is on.
type FrameStats struct {
	Interval time.Duration
	Frames   uint64
	FPS      float64
	Counts   map[string]int

	elapsed      time.Duration
	windowFrames int
}

func NewFrameStats() *FrameStats {
	return &FrameStats{Interval: time.Second, Counts: make(map[string]int)}
}

func (st *FrameStats) SetCount(name string, count int) {
	st.Counts[name] = count
}

// Tick records one frame of length dt. It reports whether a new FPS sample
// was taken.
func (st *FrameStats) Tick(dt time.Duration) bool {
	st.Frames++
	st.windowFrames++
	st.elapsed += dt
	if st.elapsed < st.Interval || st.elapsed <= 0 {
		return false
	}
	st.FPS = float64(st.windowFrames) / st.elapsed.Seconds()
	st.elapsed = 0
	st.windowFrames = 0
	return true
}

func (st *FrameStats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fps=%.1f frames=%d", st.FPS, st.Frames)
	keys := make([]string, 0, len(st.Counts))
	for k := range st.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%d", k, st.Counts[k])
	}
	return sb.String()
}

type StatsModule struct{}

func (StatsModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewFrameStats())
	app.UseSystem(System(statsSystem).InStage(PostRender))
}

func statsSystem(t *Time, st *FrameStats, r *Renderer, scene *core.Scene, log Logger) {
	if !st.Tick(t.Dt) || !log.DebugEnabled() {
		return
	}
	st.SetCount("draws", r.Draws())
	st.SetCount("nodes", scene.MeshCount())
	log.Debugf("%s", st)
}
