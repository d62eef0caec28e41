// Package hardware bundles peripheral drivers and owns the NORMAL/SERVICE
// port-mapping swap.
package hardware

import (
	"sync/atomic"

	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/internal/types"
	"github.com/temoto/snackbox/log2"
)

type Mode uint32

const (
	ModeNormal Mode = iota
	ModeService
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeService:
		return "service"
	}
	return "invalid"
}

// Driver contracts as the state machine sees them. Drivers log and degrade
// on bus faults; nothing here may take the control loop down.
type (
	TextPanel interface {
		Print2(line1, line2 string)
	}
	Indicator interface {
		ShowDigit(d int)
		Blank()
	}
	MotorDriver interface {
		DrivePhase(p int)
		Stop()
	}
	CuePlayer interface {
		Keypress()
		Error()
		Success()
		PaymentOK()
		DispensingSlot(slot int)
	}
	ImageRenderer interface {
		Show(path string)
	}
	InputPoller interface {
		Poll() types.InputEvent
		WaitRelease()
	}
)

// PortSet is one hardware addressing set; the two operating modes use
// physically distinct mappings.
type PortSet struct {
	Indicator uint16
	Panel     uint16
	Motor     uint16
	Keyboard  uint16
}

type Hardware struct {
	Bus    iodev.Bus
	Panel  TextPanel
	Seg    Indicator
	Motor  MotorDriver
	Beep   CuePlayer
	Render ImageRenderer
	Input  InputPoller

	// shared address cells, drivers load on each access
	AddrSeg   *iodev.Addr
	AddrPanel *iodev.Addr
	AddrMotor *iodev.Addr
	AddrKbd   *iodev.Addr

	Normal   PortSet
	Service  PortSet
	Log      *log2.Log
	mode     uint32
}

// SetMode swaps the active port mapping. The only caller is the state
// machine, strictly on door-animation completion.
func (self *Hardware) SetMode(m Mode) {
	ports := self.Normal
	if m == ModeService {
		ports = self.Service
	}
	self.AddrSeg.Store(ports.Indicator)
	self.AddrPanel.Store(ports.Panel)
	self.AddrMotor.Store(ports.Motor)
	self.AddrKbd.Store(ports.Keyboard)
	atomic.StoreUint32(&self.mode, uint32(m))
	self.Log.Infof("hardware mode=%s ports=%+v", m.String(), ports)
}

func (self *Hardware) Mode() Mode { return Mode(atomic.LoadUint32(&self.mode)) }

// NopRenderer stands in when the background image viewer is disabled.
type NopRenderer struct{}

func (NopRenderer) Show(string) {}
