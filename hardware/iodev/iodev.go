// Package iodev is the byte-wide peripheral port bus.
// All terminal peripherals (indicator, panel, motor, keypad, DAC) sit on
// single-byte ports addressed by the active mode mapping.
package iodev

import (
	"os"
	"sync/atomic"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

type Bus interface {
	Out(addr uint16, b byte) error
	In(addr uint16) (byte, error)
}

// Addr is a shared port address cell. The mode controller stores new
// addresses on mode switch, drivers load on every access.
type Addr struct{ v uint32 }

func NewAddr(a uint16) *Addr    { return &Addr{v: uint32(a)} }
func (a *Addr) Load() uint16    { return uint16(atomic.LoadUint32(&a.v)) }
func (a *Addr) Store(na uint16) { atomic.StoreUint32(&a.v, uint32(na)) }

// DevPort drives ports through /dev/port (offset = port address).
type DevPort struct {
	f *os.File
}

var _ Bus = &DevPort{}

func NewDevPort(path string) (*DevPort, error) {
	if path == "" {
		path = "/dev/port"
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Annotatef(err, "iodev open path=%s", path)
	}
	return &DevPort{f: f}, nil
}

func (self *DevPort) Out(addr uint16, b byte) error {
	buf := [1]byte{b}
	_, err := unix.Pwrite(int(self.f.Fd()), buf[:], int64(addr))
	return errors.Annotatef(err, "iodev out addr=%02x data=%02x", addr, b)
}

func (self *DevPort) In(addr uint16) (byte, error) {
	var buf [1]byte
	_, err := unix.Pread(int(self.f.Fd()), buf[:], int64(addr))
	return buf[0], errors.Annotatef(err, "iodev in addr=%02x", addr)
}

func (self *DevPort) Close() error { return self.f.Close() }
