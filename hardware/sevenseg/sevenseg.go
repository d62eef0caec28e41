// Package sevenseg drives the single-digit numeric indicator.
package sevenseg

import (
	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/log2"
)

// Common-anode segment patterns for 0..9 (active low).
var bin2led = [10]byte{
	0x40, 0x79, 0x24, 0x30,
	0x19, 0x12, 0x02, 0x78,
	0x00, 0x18,
}

const blankPattern = 0xFF

type SevenSeg struct {
	bus  iodev.Bus
	addr *iodev.Addr
	log  *log2.Log
}

func New(bus iodev.Bus, addr *iodev.Addr, log *log2.Log) *SevenSeg {
	return &SevenSeg{bus: bus, addr: addr, log: log}
}

// ShowDigit displays d; out of range blanks the indicator.
func (self *SevenSeg) ShowDigit(d int) {
	if d < 0 || d > 9 {
		self.Blank()
		return
	}
	self.out(bin2led[d])
}

func (self *SevenSeg) Blank() { self.out(blankPattern) }

func (self *SevenSeg) out(b byte) {
	if err := self.bus.Out(self.addr.Load(), b); err != nil {
		self.log.Errorf("sevenseg out err=%v", err)
	}
}
