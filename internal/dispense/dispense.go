// Package dispense keeps stepper motion phase-locked to the dispensing
// animation.
//
// Each unit divides its fixed wall-clock duration into discrete phase steps
// and interleaves one animation tick with every step, so frame advances ride
// on the animation's own cadence while the motor holds its sub-interval.
package dispense

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/snackbox/hardware"
	"github.com/temoto/snackbox/internal/anim"
	"github.com/temoto/snackbox/log2"
)

const drainPoll = 20 * time.Millisecond

type Config struct {
	UnitDuration time.Duration // wall-clock per unit
	StepsPerUnit int
	UnitGap      time.Duration // pause between units, not after last

	// service motor test tuning
	TestSteps      int
	TestPhaseDelay time.Duration
	TestGap        time.Duration
}

func (c *Config) SetDefaults() {
	if c.UnitDuration == 0 {
		c.UnitDuration = 3 * time.Second
	}
	if c.StepsPerUnit == 0 {
		c.StepsPerUnit = 60
	}
	if c.UnitGap == 0 {
		c.UnitGap = 150 * time.Millisecond
	}
	if c.TestSteps == 0 {
		c.TestSteps = 18
	}
	if c.TestPhaseDelay == 0 {
		c.TestPhaseDelay = 4500 * time.Microsecond
	}
	if c.TestGap == 0 {
		c.TestGap = 500 * time.Millisecond
	}
}

type Synchronizer struct {
	Motor hardware.MotorDriver
	Track *anim.Track
	Now   func() time.Duration
	Sleep func(time.Duration)
	Log   *log2.Log
	Cfg   Config

	// phase persists across runs so consecutive units continue the
	// rotation without a mechanical jolt
	phase int
}

// Run delivers units dispense cycles. The caller validates quantity and arms
// the track; Run drains the animation to completion before returning so the
// visual sequence always finishes exactly once.
func (self *Synchronizer) Run(units int) error {
	if units < 1 {
		return errors.Errorf("dispense run units=%d < 1", units)
	}
	phaseDelay := self.Cfg.UnitDuration / time.Duration(self.Cfg.StepsPerUnit*4)

	for u := 0; u < units; u++ {
		for step := 0; step < self.Cfg.StepsPerUnit; step++ {
			self.Track.Tick(self.Now())
			for i := 0; i < 4; i++ {
				self.Motor.DrivePhase(self.phase)
				self.phase = (self.phase + 1) & 3
				self.Track.Tick(self.Now())
				self.Sleep(phaseDelay)
			}
		}
		self.Motor.Stop()
		if u != units-1 {
			self.Sleep(self.Cfg.UnitGap)
		}
	}

	// motor is done; let the animation finish on its own cadence
	for self.Track.Running() {
		self.Track.Tick(self.Now())
		self.Sleep(drainPoll)
	}
	return nil
}

// TestSpin is the service motor diagnostic: short spins with gaps, same
// persistent phase rotation, no animation.
func (self *Synchronizer) TestSpin(cycles int) error {
	if cycles < 1 || cycles > 15 {
		return errors.Errorf("dispense test cycles=%d out of range 1..15", cycles)
	}
	for c := 0; c < cycles; c++ {
		for step := 0; step < self.Cfg.TestSteps; step++ {
			for i := 0; i < 4; i++ {
				self.Motor.DrivePhase(self.phase)
				self.phase = (self.phase + 1) & 3
				self.Sleep(self.Cfg.TestPhaseDelay)
			}
		}
		self.Motor.Stop()
		self.Sleep(self.Cfg.TestGap)
	}
	return nil
}
