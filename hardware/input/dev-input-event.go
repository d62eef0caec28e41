package input

import (
	"io"
	"os"

	"github.com/temoto/inputevent-go"
	"github.com/temoto/snackbox/internal/types"
)

const DevInputEventTag = "dev-input-event"

// DevInputEventSource adapts a Linux /dev/input/eventN keyboard to keypad
// keys for bench rigs without the matrix hardware.
type DevInputEventSource struct {
	f io.ReadCloser
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }

func NewDevInputEventSource(device string) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return &DevInputEventSource{f: f}, nil
}

func (self *DevInputEventSource) Read() (types.InputEvent, error) {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			return types.InputEvent{}, err
		}
		if ie.Type != inputevent.EV_KEY || ie.Value != int32(inputevent.KeyStateUp) {
			continue
		}
		if key := mapEvdevCode(uint16(ie.Code)); key != types.KeyNone {
			return types.InputEvent{Source: DevInputEventTag, Key: key}, nil
		}
	}
}

// Standard PC keyboard: top digit row, backspace=BACK, enter=ENTER.
func mapEvdevCode(code uint16) types.Key {
	switch {
	case code >= 2 && code <= 10: // KEY_1..KEY_9
		return types.Key('1' + byte(code-2))
	case code == 11: // KEY_0
		return types.Key('0')
	case code == 14: // KEY_BACKSPACE
		return types.KeyBack
	case code == 28: // KEY_ENTER
		return types.KeyEnter
	}
	return types.KeyNone
}
