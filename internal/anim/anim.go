// Package anim advances a frame sequence at fixed cadence without blocking.
//
// Two independent tracks exist in the terminal (door motion, dispensing
// motion); they never share timing state. Runs are strictly one-shot.
package anim

import "time"

// Track is one animation run. All methods take explicit now (monotonic since
// boot) so the poll loop owns time and tests inject it.
type Track struct {
	// Show displays one frame; missing-asset substitution happens in the
	// renderer, never here.
	Show func(frame string)

	frames  []string
	idx     int
	dir     int
	cadence time.Duration
	nextAt  time.Duration
	running bool
	done    bool
}

// Arm resets the track to the boundary index for the travel direction and
// schedules immediate display of the first frame.
func (self *Track) Arm(frames []string, dir int, cadence, now time.Duration) {
	self.frames = frames
	if dir >= 0 {
		self.dir = +1
		self.idx = 0
	} else {
		self.dir = -1
		self.idx = len(frames) - 1
	}
	self.cadence = cadence
	self.nextAt = now
	self.running = true
	self.done = false
}

// Tick is idempotent before the due time. When due it shows the current
// frame and advances exactly one step; a late tick still advances exactly
// one frame, never skips. Reaching past the terminal boundary completes the
// run instead of advancing.
func (self *Track) Tick(now time.Duration) {
	if !self.running || self.done {
		return
	}
	if now < self.nextAt {
		return
	}
	if self.Show != nil && self.idx >= 0 && self.idx < len(self.frames) {
		self.Show(self.frames[self.idx])
	}
	self.nextAt = now + self.cadence

	last := len(self.frames) - 1
	atBoundary := (self.dir > 0 && self.idx >= last) || (self.dir < 0 && self.idx <= 0)
	if atBoundary {
		self.done = true
		self.running = false
		return
	}
	self.idx += self.dir
}

// Done reports completion; stays true until the next Arm.
func (self *Track) Done() bool { return self.done }

// Running reports an armed, not yet completed run.
func (self *Track) Running() bool { return self.running }

// Reset disarms without completing, used when a run is abandoned.
func (self *Track) Reset() {
	self.running = false
	self.done = false
}
