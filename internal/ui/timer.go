package ui

import (
	"time"

	"github.com/temoto/snackbox/hardware"
)

// Countdown is the single-digit selection countdown on the numeric indicator.
// Remaining time rounds up and caps at 9; writes are edge-triggered so the
// digit is redrawn only when it changes.
type Countdown struct {
	Seg      hardware.Indicator
	Duration time.Duration

	deadline  time.Duration
	lastShown int
}

func (self *Countdown) Start(now time.Duration) {
	self.deadline = now + self.Duration
	self.lastShown = -1
}

func (self *Countdown) Active() bool { return self.deadline > 0 }

// SecondsLeft returns -1 when inactive, else remaining whole seconds 0..9.
func (self *Countdown) SecondsLeft(now time.Duration) int {
	if self.deadline <= 0 {
		return -1
	}
	rem := self.deadline - now
	if rem <= 0 {
		return 0
	}
	sec := int((rem + time.Second - 1) / time.Second)
	if sec > 9 {
		sec = 9
	}
	return sec
}

func (self *Countdown) Expired(now time.Duration) bool { return self.SecondsLeft(now) == 0 }

func (self *Countdown) UpdateDisplay(now time.Duration) {
	left := self.SecondsLeft(now)
	if left < 0 {
		return
	}
	if left != self.lastShown {
		self.Seg.ShowDigit(left)
		self.lastShown = left
	}
}

func (self *Countdown) Stop() {
	self.deadline = 0
	self.lastShown = -1
	self.Seg.Blank()
}

// Heartbeat is the service-mode status blink on the same indicator: digit 0
// and blank alternate every period.
type Heartbeat struct {
	Seg    hardware.Indicator
	Period time.Duration

	next time.Duration
	on   bool
}

func (self *Heartbeat) Reset() {
	self.next = 0
	self.on = true
	self.Seg.ShowDigit(0)
}

func (self *Heartbeat) Tick(now time.Duration) {
	if self.next == 0 {
		self.next = now + self.Period
		self.on = true
		self.Seg.ShowDigit(0)
		return
	}
	if now >= self.next {
		self.next += self.Period
		self.on = !self.on
		if self.on {
			self.Seg.ShowDigit(0)
		} else {
			self.Seg.Blank()
		}
	}
}
