// Package text_display drives the 16x2 character panel through the port bus.
//
// The panel is fully reinitialized before every write so partial-write
// corruption from a previous session cannot persist on screen.
package text_display

import (
	"bytes"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/log2"
)

const MaxWidth = 40

var spaceBytes = bytes.Repeat([]byte{' '}, MaxWidth)

// HD44780 4-bit interface timing and control bits.
const (
	ctlCommand = 0x04
	ctlData    = 0x05

	delayPulse = 10 * time.Microsecond
	delayShort = 200 * time.Microsecond
	delayLong  = 2 * time.Millisecond
	delayInit  = 20 * time.Millisecond
)

type Config struct {
	Codepage string
	Width    uint32
}

type TextDisplay struct {
	bus   iodev.Bus
	addr  *iodev.Addr
	log   *log2.Log
	sleep func(time.Duration)
	tr    atomic.Value
	width uint32

	// last written lines, for diagnostics and the dev simulator
	l1, l2 string
}

func New(bus iodev.Bus, addr *iodev.Addr, opt Config, log *log2.Log, sleep func(time.Duration)) (*TextDisplay, error) {
	if opt.Width == 0 {
		opt.Width = 16
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	self := &TextDisplay{
		bus:   bus,
		addr:  addr,
		log:   log,
		sleep: sleep,
		width: opt.Width,
	}
	if opt.Codepage != "" {
		if err := self.SetCodepage(opt.Codepage); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return self, nil
}

func (self *TextDisplay) SetCodepage(cp string) error {
	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return errors.Annotatef(err, "text_display codepage=%s", cp)
	}
	self.tr.Store(tr)
	return nil
}

// Print2 pads/truncates both lines to panel width and rewrites the screen.
func (self *TextDisplay) Print2(line1, line2 string) {
	b1 := self.Translate(line1)
	b2 := self.Translate(line2)
	self.l1, self.l2 = line1, line2

	self.init4bit()
	self.writeCmd(0x01) // clear
	self.sleep(delayLong)
	self.writeCmd(0x80) // line 1 home
	self.writeBytes(b1)
	self.writeCmd(0xC0) // line 2 home
	self.writeBytes(b2)
}

// State returns last written lines, untranslated.
func (self *TextDisplay) State() (string, string) { return self.l1, self.l2 }

// Translate converts to panel codepage and pads/truncates to width.
func (self *TextDisplay) Translate(s string) []byte {
	result := []byte(s)
	if tr, ok := self.tr.Load().(charset.Translator); ok && tr != nil {
		if _, tb, err := tr.Translate(result, true); err == nil {
			// translator reuses single internal buffer, make a copy
			result = append([]byte(nil), tb...)
		} else {
			self.log.Errorf("text_display translate err=%v", err)
		}
	}
	if uint32(len(result)) > self.width {
		result = result[:self.width]
	}
	return PadSpace(result, self.width)
}

func PadSpace(b []byte, width uint32) []byte {
	l := uint32(len(b))
	if l == 0 {
		return spaceBytes[:width]
	}
	if l >= width {
		return b
	}
	buf := make([]byte, 0, width)
	buf = append(append(buf, b...), spaceBytes[:width-l]...)
	return buf
}

func (self *TextDisplay) init4bit() {
	self.sleep(delayInit)
	self.writeCmd(0x30)
	self.sleep(delayInit)
	self.writeCmd(0x30)
	self.sleep(delayInit)
	self.writeCmd(0x30)

	self.writeCmd(0x02) // home
	self.writeCmd(0x28) // 4-bit, 2 lines
	self.writeCmd(0x01) // clear
	self.writeCmd(0x0C) // display on, no cursor
	self.writeCmd(0x06) // entry mode increment
	self.writeCmd(0x80)
}

func (self *TextDisplay) writeCmd(cmd byte) { self.writeNibbles(cmd, ctlCommand) }
func (self *TextDisplay) writeData(b byte)  { self.writeNibbles(b, ctlData) }
func (self *TextDisplay) writeBytes(b []byte) {
	for _, c := range b {
		self.writeData(c)
	}
}

func (self *TextDisplay) writeNibbles(b, ctl byte) {
	addr := self.addr.Load()
	hi := b & 0xF0
	lo := (b & 0x0F) << 4
	for i, nib := range [2]byte{hi, lo} {
		if err := self.bus.Out(addr, nib|ctl); err != nil {
			self.log.Errorf("text_display out err=%v", err)
			return
		}
		self.sleep(delayPulse)
		if err := self.bus.Out(addr, nib); err != nil {
			self.log.Errorf("text_display out err=%v", err)
			return
		}
		if i == 0 {
			self.sleep(delayShort)
		} else {
			self.sleep(delayLong)
		}
	}
}
