// Package beeper generates square-wave audio cues on the DAC ports.
//
// The core vocabulary is a small fixed set of presets, not a synthesizer.
package beeper

import (
	"time"

	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/log2"
)

// Both DAC channels get the same sample, matching the stereo wiring.
var dacAddrs = [2]uint16{3, 5}

type Beeper struct {
	bus   iodev.Bus
	log   *log2.Log
	sleep func(time.Duration)
}

func New(bus iodev.Bus, log *log2.Log, sleep func(time.Duration)) *Beeper {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Beeper{bus: bus, log: log, sleep: sleep}
}

// Square plays a square wave for duration with given half-period and levels.
func (self *Beeper) Square(duration time.Duration, halfPeriod time.Duration, hi, lo byte) {
	for elapsed := time.Duration(0); elapsed < duration; elapsed += 2 * halfPeriod {
		self.write(hi)
		self.sleep(halfPeriod)
		self.write(lo)
		self.sleep(halfPeriod)
	}
	self.write(0)
}

func (self *Beeper) Keypress() { self.Square(25*time.Millisecond, 650*time.Microsecond, 200, 20) }
func (self *Beeper) Error()    { self.Square(140*time.Millisecond, 1400*time.Microsecond, 180, 0) }

func (self *Beeper) Success() {
	self.Square(70*time.Millisecond, 800*time.Microsecond, 220, 10)
	self.sleep(35 * time.Millisecond)
	self.Square(70*time.Millisecond, 500*time.Microsecond, 220, 10)
}

func (self *Beeper) PaymentOK() {
	self.Square(60*time.Millisecond, 900*time.Microsecond, 220, 0)
	self.sleep(20 * time.Millisecond)
	self.Square(60*time.Millisecond, 650*time.Microsecond, 220, 0)
}

// DispensingSlot plays the slot-specific dispensing tone, 1..4.
func (self *Beeper) DispensingSlot(slot int) {
	switch slot {
	case 1:
		self.Square(180*time.Millisecond, 900*time.Microsecond, 220, 0)
	case 2:
		self.Square(220*time.Millisecond, 700*time.Microsecond, 220, 0)
	case 3:
		self.Square(260*time.Millisecond, 550*time.Microsecond, 220, 0)
	case 4:
		self.Square(320*time.Millisecond, 450*time.Microsecond, 220, 0)
	default:
		self.Square(200*time.Millisecond, 650*time.Microsecond, 220, 0)
	}
}

func (self *Beeper) write(v byte) {
	for _, addr := range dacAddrs {
		if err := self.bus.Out(addr, v); err != nil {
			self.log.Errorf("beeper out err=%v", err)
		}
	}
}
