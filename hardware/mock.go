package hardware

import (
	"fmt"

	"github.com/temoto/snackbox/internal/types"
)

// Test doubles for the driver contracts. Production drivers live in their
// own packages; these record calls for state machine tests.

type MockPanel struct {
	L1, L2  string
	History []string
}

func (self *MockPanel) Print2(line1, line2 string) {
	self.L1, self.L2 = line1, line2
	self.History = append(self.History, line1+"|"+line2)
}

type MockIndicator struct {
	// Writes records digits, -1 for blank
	Writes []int
}

func (self *MockIndicator) ShowDigit(d int) { self.Writes = append(self.Writes, d) }
func (self *MockIndicator) Blank()          { self.Writes = append(self.Writes, -1) }

func (self *MockIndicator) Last() int {
	if len(self.Writes) == 0 {
		return -1
	}
	return self.Writes[len(self.Writes)-1]
}

type MockMotor struct {
	Phases []int
	Stops  int
}

func (self *MockMotor) DrivePhase(p int) { self.Phases = append(self.Phases, p&3) }
func (self *MockMotor) Stop()            { self.Stops++ }

type MockBeeper struct {
	Cues []string
}

func (self *MockBeeper) Keypress()  { self.Cues = append(self.Cues, "keypress") }
func (self *MockBeeper) Error()     { self.Cues = append(self.Cues, "error") }
func (self *MockBeeper) Success()   { self.Cues = append(self.Cues, "success") }
func (self *MockBeeper) PaymentOK() { self.Cues = append(self.Cues, "payment") }
func (self *MockBeeper) DispensingSlot(slot int) {
	self.Cues = append(self.Cues, fmt.Sprintf("dispensing%d", slot))
}

type MockRenderer struct {
	Shown []string
}

func (self *MockRenderer) Show(path string) { self.Shown = append(self.Shown, path) }

type MockInput struct {
	queue []types.InputEvent
}

func (self *MockInput) Push(keys ...types.Key) {
	for _, k := range keys {
		self.queue = append(self.queue, types.InputEvent{Source: "mock", Key: k})
	}
}

func (self *MockInput) Poll() types.InputEvent {
	if len(self.queue) == 0 {
		return types.InputEvent{}
	}
	e := self.queue[0]
	self.queue = self.queue[1:]
	return e
}

func (self *MockInput) WaitRelease() {}
