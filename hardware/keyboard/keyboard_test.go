package keyboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/internal/types"
	"github.com/temoto/snackbox/log2"
)

const testAddr = 0x3C

// columnOf derives which select mask exposes the table entry: an entry is
// only visible while its own column line is pulled low.
func columnOf(code byte) byte {
	for _, col := range colMasks {
		if (code|0x0F)&col == code {
			return col
		}
	}
	return 0
}

func testKeyboard(t testing.TB, pressed byte) (*Keyboard, *iodev.Mock) {
	mock := iodev.NewMock()
	mock.InFunc = func(addr uint16, lastOut byte) byte {
		if pressed != 0 && lastOut == columnOf(pressed) {
			return pressed
		}
		return 0xFF
	}
	kb := New(mock, iodev.NewAddr(testAddr), log2.NewTest(t, log2.LDebug), func(time.Duration) {})
	return kb, mock
}

func TestScanIdle(t *testing.T) {
	t.Parallel()

	kb, mock := testKeyboard(t, 0)
	assert.Equal(t, types.KeyNone, kb.Scan())
	// full pass selects every column once
	assert.Equal(t, []byte{0xF7, 0xFB, 0xFD, 0xFE}, mock.OutsTo(testAddr))
}

func TestScanDecode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  byte
		key  types.Key
	}{
		{"zero", 0xB7, types.Key('0')},
		{"five", 0xBD, types.Key('5')},
		{"nine", 0xDB, types.Key('9')},
		{"back", 0x77, types.KeyBack},
		{"enter", 0xD7, types.KeyEnter},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			kb, _ := testKeyboard(t, c.raw)
			assert.Equal(t, c.key, kb.Scan())
		})
	}
}

func TestWaitRelease(t *testing.T) {
	t.Parallel()

	pressed := byte(0xBD)
	mock := iodev.NewMock()
	scans := 0
	mock.InFunc = func(addr uint16, lastOut byte) byte {
		if scans < 8 && lastOut == columnOf(pressed) {
			return pressed
		}
		return 0xFF
	}
	kb := New(mock, iodev.NewAddr(testAddr), log2.NewTest(t, log2.LDebug), func(time.Duration) { scans++ })
	kb.WaitRelease()
	assert.Equal(t, types.KeyNone, kb.Scan())
}
