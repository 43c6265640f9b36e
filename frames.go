package townview

import (
	"time"
)

// FrameTime is passed to a frame callback.
type FrameTime struct {
	Time  time.Time
	Frame uint64
}

// FrameToken identifies one pending frame request. The zero token is never
// issued.
type FrameToken uint64

// FrameRequester is a display's frame schedule. Each request fires at most
// once, on the next frame. Cancelling a spent or unknown token does nothing.
type FrameRequester interface {
	RequestFrame(fn func(FrameTime)) FrameToken
	CancelFrame(token FrameToken)
}

type pendingFrame struct {
	token FrameToken
	fn    func(FrameTime)
}

// frameQueue holds requests until the owner fires a frame.
type frameQueue struct {
	next    FrameToken
	pending []pendingFrame
	frame   uint64
}

func (q *frameQueue) RequestFrame(fn func(FrameTime)) FrameToken {
	q.next++
	q.pending = append(q.pending, pendingFrame{token: q.next, fn: fn})
	return q.next
}

func (q *frameQueue) CancelFrame(token FrameToken) {
	for i, p := range q.pending {
		if p.token == token {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

func (q *frameQueue) Pending() int {
	return len(q.pending)
}

// fire runs the requests pending when it was called. Requests made by the
// callbacks wait for the next frame.
func (q *frameQueue) fire(now time.Time) int {
	if len(q.pending) == 0 {
		return 0
	}
	due := q.pending
	q.pending = nil
	q.frame++
	ft := FrameTime{Time: now, Frame: q.frame}
	for _, p := range due {
		p.fn(ft)
	}
	return len(due)
}

// ManualFrames fires frames only when Tick is called. Time advances by Step
// per tick from Start.
type ManualFrames struct {
	frameQueue
	Start time.Time
	Step  time.Duration
	ticks int64
}

func NewManualFrames(step time.Duration) *ManualFrames {
	return &ManualFrames{Start: time.Unix(0, 0), Step: step}
}

// Tick presents one frame and returns how many callbacks ran.
func (m *ManualFrames) Tick() int {
	m.ticks++
	return m.fire(m.Start.Add(time.Duration(m.ticks) * m.Step))
}
