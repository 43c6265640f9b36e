package townview

import (
	"time"
)

// Time is the current frame's time and the time since the previous frame.
type Time struct {
	Time time.Time
	Dt   time.Duration
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{})
	cmd.UseSystem(System(timeSystem).InStage(PreUpdate))
}

func timeSystem(timeResource *Time, r *Renderer) {
	now := r.LastFrame().Time
	if timeResource.Time.IsZero() {
		timeResource.Dt = 0
	} else {
		timeResource.Dt = now.Sub(timeResource.Time)
	}
	timeResource.Time = now
}
