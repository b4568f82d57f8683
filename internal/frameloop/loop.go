// Package frameloop is a cooperative animation-frame scheduler: callbacks
// request the next frame slot and run when the host ticks the loop.
package frameloop

// ID identifies a pending request.
type ID uint64

// Scheduler hands out frame slots.
type Scheduler interface {
	Request(cb func(now float64)) ID
	Cancel(id ID) bool
}

type request struct {
	id        ID
	cb        func(now float64)
	cancelled bool
}

// Loop queues one-shot callbacks for the next Tick. It must be driven from a
// single goroutine.
type Loop struct {
	next    ID
	pending []*request
	running []*request
}

var _ Scheduler = (*Loop)(nil)

func New() *Loop { return &Loop{} }

// Request schedules cb for the next Tick. Callbacks requested while a tick
// is running wait for the following one.
func (l *Loop) Request(cb func(now float64)) ID {
	l.next++
	l.pending = append(l.pending, &request{id: l.next, cb: cb})
	return l.next
}

// Cancel removes a request that has not run yet.
func (l *Loop) Cancel(id ID) bool {
	for i, r := range l.pending {
		if r.id == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return true
		}
	}
	for _, r := range l.running {
		if r.id == id && !r.cancelled {
			r.cancelled = true
			return true
		}
	}
	return false
}

// Tick runs every callback queued before the call and reports how many ran.
func (l *Loop) Tick(now float64) int {
	l.running, l.pending = l.pending, nil
	n := 0
	for _, r := range l.running {
		if r.cancelled {
			continue
		}
		r.cancelled = true
		r.cb(now)
		n++
	}
	l.running = nil
	return n
}

// Pending is the number of callbacks waiting for the next Tick.
func (l *Loop) Pending() int { return len(l.pending) }
