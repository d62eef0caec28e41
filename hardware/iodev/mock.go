package iodev

import "sync"

type OutRec struct {
	Addr uint16
	Data byte
}

// Mock records writes and answers reads through InFunc.
type Mock struct {
	mu      sync.Mutex
	Outs    []OutRec
	lastOut map[uint16]byte
	// InFunc receives the last byte written to addr (0 if none).
	InFunc func(addr uint16, lastOut byte) byte
}

var _ Bus = &Mock{}

func NewMock() *Mock {
	return &Mock{lastOut: make(map[uint16]byte)}
}

func (self *Mock) Out(addr uint16, b byte) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.Outs = append(self.Outs, OutRec{Addr: addr, Data: b})
	self.lastOut[addr] = b
	return nil
}

func (self *Mock) In(addr uint16) (byte, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.InFunc == nil {
		return 0xFF, nil
	}
	return self.InFunc(addr, self.lastOut[addr]), nil
}

// OutsTo returns data bytes written to addr, in order.
func (self *Mock) OutsTo(addr uint16) []byte {
	self.mu.Lock()
	defer self.mu.Unlock()
	bs := make([]byte, 0, len(self.Outs))
	for _, o := range self.Outs {
		if o.Addr == addr {
			bs = append(bs, o.Data)
		}
	}
	return bs
}

func (self *Mock) Reset() {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.Outs = nil
	self.lastOut = make(map[uint16]byte)
}
