package text_display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/log2"
)

func testDisplay(t testing.TB) (*TextDisplay, *iodev.Mock) {
	mock := iodev.NewMock()
	td, err := New(mock, iodev.NewAddr(0x3B), Config{Width: 16}, log2.NewTest(t, log2.LDebug), func(time.Duration) {})
	require.NoError(t, err)
	return td, mock
}

func TestTranslatePad(t *testing.T) {
	t.Parallel()

	td, _ := testDisplay(t)
	assert.Equal(t, []byte("Enter Index:    "), td.Translate("Enter Index:"))
	assert.Equal(t, []byte("                "), td.Translate(""))
	assert.Equal(t, []byte("0123456789abcdef"), td.Translate("0123456789abcdefOVERFLOW"))
}

func TestPrint2WritesData(t *testing.T) {
	t.Parallel()

	td, mock := testDisplay(t)
	td.Print2("Hi", "B to enter")
	l1, l2 := td.State()
	assert.Equal(t, "Hi", l1)
	assert.Equal(t, "B to enter", l2)
	// 'H' = 0x48: high nibble 0x40 with data strobe, then low nibble 0x80
	outs := mock.OutsTo(0x3B)
	require.NotEmpty(t, outs)
	assert.Contains(t, outs, byte(0x40|0x05))
	assert.Contains(t, outs, byte(0x80|0x05))
}

func TestCodepagePassthrough(t *testing.T) {
	t.Parallel()

	mock := iodev.NewMock()
	_, err := New(mock, iodev.NewAddr(0x3B), Config{Width: 16, Codepage: "no-such-codepage"}, log2.NewTest(t, log2.LDebug), func(time.Duration) {})
	assert.Error(t, err)
}
