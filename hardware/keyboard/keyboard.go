// Package keyboard scans the 4-column keypad matrix.
package keyboard

import (
	"time"

	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/internal/types"
	"github.com/temoto/snackbox/log2"
)

// Column select masks, one output line pulled low per scan pass.
var colMasks = [4]byte{0xF7, 0xFB, 0xFD, 0xFE}

// scanTable maps the raw masked scan code to key ordinal 0..9, BACK, ENTER.
var scanTable = [12]byte{
	0xB7, 0x7E, 0xBE, 0xDE,
	0x7D, 0xBD, 0xDD, 0x7B,
	0xBB, 0xDB, 0x77, 0xD7,
}

const releasePoll = 12 * time.Millisecond

type Keyboard struct {
	bus   iodev.Bus
	addr  *iodev.Addr
	log   *log2.Log
	sleep func(time.Duration)
}

func New(bus iodev.Bus, addr *iodev.Addr, log *log2.Log, sleep func(time.Duration)) *Keyboard {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Keyboard{bus: bus, addr: addr, log: log, sleep: sleep}
}

// Scan performs one non-blocking matrix pass.
// Returns types.KeyNone when no key is pressed.
func (self *Keyboard) Scan() types.Key {
	addr := self.addr.Load()
	for _, col := range colMasks {
		if err := self.bus.Out(addr, col); err != nil {
			self.log.Errorf("keyboard scan out err=%v", err)
			return types.KeyNone
		}
		raw, err := self.bus.In(addr)
		if err != nil {
			self.log.Errorf("keyboard scan in err=%v", err)
			return types.KeyNone
		}
		code := (raw | 0x0F) & col
		if code != col {
			return decode(code)
		}
	}
	return types.KeyNone
}

// WaitRelease blocks until the pressed key is let go. Debounce is the
// caller's responsibility after accepting a key, not the scanner's.
func (self *Keyboard) WaitRelease() {
	for self.Scan() != types.KeyNone {
		self.sleep(releasePoll)
	}
}

func decode(code byte) types.Key {
	for j, c := range scanTable {
		if code == c {
			if j > 9 {
				return types.Key(byte(j) + 0x37) // 'A', 'B'
			}
			return types.Key(byte(j) + '0')
		}
	}
	return types.KeyNone
}
