// Package motor drives the dispensing stepper.
//
// Full-step sequence, forward only: increasing phase index is the one and
// only rotation direction in this mechanism.
package motor

import (
	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/log2"
)

var phasePattern = [4]byte{0x08, 0x04, 0x02, 0x01}

type Motor struct {
	bus  iodev.Bus
	addr *iodev.Addr
	log  *log2.Log
}

func New(bus iodev.Bus, addr *iodev.Addr, log *log2.Log) *Motor {
	return &Motor{bus: bus, addr: addr, log: log}
}

// DrivePhase energizes winding for phase p (mod 4).
func (self *Motor) DrivePhase(p int) {
	self.out(phasePattern[p&3])
}

// Stop de-energizes all windings.
func (self *Motor) Stop() { self.out(0x00) }

func (self *Motor) out(b byte) {
	if err := self.bus.Out(self.addr.Load(), b); err != nil {
		self.log.Errorf("motor out err=%v", err)
	}
}
