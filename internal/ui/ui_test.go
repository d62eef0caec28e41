package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/snackbox/hardware"
	"github.com/temoto/snackbox/internal/state"
	"github.com/temoto/snackbox/internal/types"
)

type env struct {
	t     testing.TB
	g     *state.Global
	ui    *UI
	panel *hardware.MockPanel
	seg   *hardware.MockIndicator
	motor *hardware.MockMotor
	beep  *hardware.MockBeeper
	rend  *hardware.MockRenderer
	input *hardware.MockInput
}

func testEnv(t testing.TB) *env {
	ctx, g := state.NewTestContext(t, "")
	e := &env{t: t, g: g,
		panel: &hardware.MockPanel{},
		seg:   &hardware.MockIndicator{},
		motor: &hardware.MockMotor{},
		beep:  &hardware.MockBeeper{},
		rend:  &hardware.MockRenderer{},
		input: &hardware.MockInput{},
	}
	// mocks must land before Init captures driver references
	g.Hardware.Panel = e.panel
	g.Hardware.Seg = e.seg
	g.Hardware.Motor = e.motor
	g.Hardware.Beep = e.beep
	g.Hardware.Render = e.rend
	g.Hardware.Input = e.input

	e.ui = &UI{}
	require.NoError(t, e.ui.Init(ctx))
	return e
}

// press feeds keys one at a time, one poll iteration each.
func (e *env) press(keys string) {
	for i := 0; i < len(keys); i++ {
		e.input.Push(types.Key(keys[i]))
		e.ui.Step()
	}
}

func (e *env) lastCue() string {
	if len(e.beep.Cues) == 0 {
		return ""
	}
	return e.beep.Cues[len(e.beep.Cues)-1]
}

func (e *env) lastShown() string {
	if len(e.rend.Shown) == 0 {
		return ""
	}
	return e.rend.Shown[len(e.rend.Shown)-1]
}

// runDoor drives poll iterations until the door animation completes.
func (e *env) runDoor() {
	for i := 0; i < 1000; i++ {
		if e.ui.State != StateDoorOpening && e.ui.State != StateDoorClosing {
			return
		}
		e.g.Sleep(100 * time.Millisecond)
		e.ui.Step()
	}
	e.t.Fatal("door animation did not complete")
}

func (e *env) toService() {
	e.press("1234B")
	require.Equal(e.t, StateSvcGate, e.ui.State)
	e.press("5") // any key confirms
	require.Equal(e.t, StateDoorOpening, e.ui.State)
	e.runDoor()
	require.Equal(e.t, StateSvcMenu, e.ui.State)
}

func TestInitialMenu(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	assert.Equal(t, StateMenu, e.ui.State)
	assert.Equal(t, "Enter Index:", e.panel.L1)
	assert.Equal(t, "B to enter", e.panel.L2)
	assert.Equal(t, "/tmp/menu.jpg", e.lastShown())
	assert.Equal(t, -1, e.seg.Last())
}

func TestSelectionStartsCountdown(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("2")
	assert.Equal(t, "Enter Index:2", e.panel.L1)
	assert.Equal(t, 9, e.seg.Last())

	e.press("2")
	assert.Equal(t, "Enter Index:22", e.panel.L1)

	// backspace to empty stops and blanks
	e.press("AA")
	assert.Equal(t, "Enter Index:", e.panel.L1)
	assert.Equal(t, -1, e.seg.Last())
}

func TestCountdownExpiryPreemptsInput(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("3")
	require.Equal(t, 9, e.seg.Last())

	// key arrives late, after the deadline: timer wins this iteration
	e.input.Push(types.Key('5'))
	e.g.Sleep(10 * time.Second)
	e.ui.Step()
	assert.Equal(t, StateMenu, e.ui.State)
	assert.Equal(t, "Enter Index:", e.panel.L1)
	assert.Equal(t, -1, e.seg.Last())
	assert.Equal(t, "error", e.lastCue())

	// the queued key lands in the fresh menu next iteration
	e.ui.Step()
	assert.Equal(t, "Enter Index:5", e.panel.L1)
}

func TestInvalidIndex(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("7B")
	assert.Equal(t, StateMenu, e.ui.State)
	assert.Contains(t, e.panel.History, "Invalid index|Try 3/8/11/22")
	assert.Equal(t, "Enter Index:", e.panel.L1)
}

func TestMenuEnterEmpty(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("B")
	assert.Contains(t, e.panel.History, "No index|Type digits")
	assert.Equal(t, StateMenu, e.ui.State)
}

func TestPurchaseEndToEnd(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	item, ok := e.g.Inventory.ByCode(3)
	require.True(t, ok)
	require.Equal(t, 1, item.Stock())

	e.press("3B")
	require.Equal(t, StateAmount, e.ui.State)
	assert.Equal(t, "Enter amount:", e.panel.L1)
	assert.Equal(t, "Stock: 1", e.panel.L2)
	assert.Equal(t, "/tmp/cheetos.jpg", e.lastShown())
	assert.Equal(t, 9, e.seg.Last())

	e.press("1B")
	require.Equal(t, StatePay, e.ui.State)
	assert.Equal(t, "Total $1.50", e.panel.L1)

	e.press("00")
	require.Equal(t, StateDispensing, e.ui.State)
	assert.Contains(t, e.beep.Cues, "payment")

	e.ui.Step() // dispense burst
	assert.Equal(t, StateMenu, e.ui.State)
	assert.Equal(t, 1*60*4, len(e.motor.Phases))
	assert.Equal(t, 0, item.Stock())
	assert.Contains(t, e.beep.Cues, "success")
	assert.Contains(t, e.panel.History, "Done!|Thank you")
	assert.Contains(t, e.rend.Shown, "/tmp/success.jpg")

	// sold out now
	e.press("3B")
	assert.Equal(t, StateMenu, e.ui.State)
	assert.Equal(t, "/tmp/cheetos_oos.jpg", e.rend.Shown[len(e.rend.Shown)-2])
	assert.Contains(t, e.panel.History, "Cheetos|OUT OF STOCK")
}

func TestAmountValidation(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("8B") // Lays, stock 2
	require.Equal(t, StateAmount, e.ui.State)

	e.press("B")
	assert.Contains(t, e.panel.History, "No amount|Type digits")
	assert.Equal(t, StateAmount, e.ui.State)

	e.press("99B")
	assert.Contains(t, e.panel.History, "Amount must|be 1-15")
	assert.Equal(t, StateAmount, e.ui.State)

	e.press("5B")
	assert.Contains(t, e.panel.History, "Insufficient|stock")
	assert.Equal(t, StateAmount, e.ui.State)

	e.press("2B")
	require.Equal(t, StatePay, e.ui.State)
	assert.Equal(t, "Total $3.00", e.panel.L1)
}

func TestPayDoubleZero(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("11B2B") // Doritos, qty 2
	require.Equal(t, StatePay, e.ui.State)

	// any other digit resets the zero run
	e.press("050")
	assert.Equal(t, StatePay, e.ui.State)
	assert.Equal(t, "Pay: enter 00", e.panel.L1)

	e.press("0")
	require.Equal(t, StateDispensing, e.ui.State)
}

func TestPayEnterIsError(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("8B1B")
	require.Equal(t, StatePay, e.ui.State)
	e.press("B")
	assert.Equal(t, StatePay, e.ui.State)
	assert.Equal(t, "error", e.lastCue())
}

func TestBackAborts(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("8B")
	require.Equal(t, StateAmount, e.ui.State)

	// BACK first eats typed digits, then aborts
	e.press("12A")
	assert.Equal(t, StateAmount, e.ui.State)
	assert.Equal(t, "Enter amount:1", e.panel.L1)
	e.press("AA")
	assert.Equal(t, StateMenu, e.ui.State)
	assert.Equal(t, "Enter Index:", e.panel.L1)
	assert.Equal(t, -1, e.seg.Last())

	e.press("8B1B")
	require.Equal(t, StatePay, e.ui.State)
	e.press("A")
	assert.Equal(t, StateMenu, e.ui.State)
}

func TestDispenseBurstMultiUnit(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	e.press("22B3B00") // Pocky, qty 3
	require.Equal(t, StateDispensing, e.ui.State)
	e.ui.Step()

	assert.Equal(t, 3*60*4, len(e.motor.Phases))
	for i, p := range e.motor.Phases {
		assert.Equal(t, i&3, p, "motor phase order broken at i=%d", i)
	}
	item, _ := e.g.Inventory.ByCode(22)
	assert.Equal(t, 1, item.Stock())
	// dispense animation ran to completion during the burst
	assert.Contains(t, e.rend.Shown, "/tmp/disp_4.jpg")
}
