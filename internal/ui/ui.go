// Package ui is the terminal control core: one cooperative poll loop drives
// the customer and service state machines, the animation tracks, the
// selection countdown and the mode gates. Everything here runs on a single
// goroutine; drivers may block it only for bounded feedback screens and
// dispense bursts.
package ui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/temoto/snackbox/hardware"
	"github.com/temoto/snackbox/helpers"
	"github.com/temoto/snackbox/internal/anim"
	"github.com/temoto/snackbox/internal/dispense"
	"github.com/temoto/snackbox/internal/inventory"
	"github.com/temoto/snackbox/internal/state"
	"github.com/temoto/snackbox/internal/types"
	"github.com/temoto/snackbox/log2"
)

const (
	selMax = 4
	amtMax = 3
	svcMax = 4

	pollDelay   = 20 * time.Millisecond
	soundSettle = 1 * time.Second
)

type UI struct {
	g   *state.Global
	hw  *hardware.Hardware
	log *log2.Log
	cfg *state.Config

	State State

	door      anim.Track
	disp      anim.Track
	countdown Countdown
	heartbeat Heartbeat
	// gate confirmation deadline, 0 = no gate pending
	gateDeadline time.Duration

	// entry buffers: sel serves the customer menu and the service menu,
	// amt the purchase amount, svc the service sub-prompts
	sel []byte
	amt []byte
	svc []byte

	item    *inventory.Item
	qty     int
	zeroRun int
	svcItem *inventory.Item

	sync dispense.Synchronizer

	password    string
	gateTimeout time.Duration
	maxDispense int
	payRepeat   int
	codeHint    string

	errShort     time.Duration
	errLong      time.Duration
	doneDelay    time.Duration
	successDelay time.Duration
	oosDelay     time.Duration

	doorFrames  []string
	dispFrames  []string
	doorCadence time.Duration
	dispCadence time.Duration
}

func (self *UI) Init(ctx context.Context) error {
	g := state.GetGlobal(ctx)
	self.g = g
	self.hw = g.Hardware
	self.log = g.Log
	self.cfg = g.Config
	c := g.Config

	self.door.Show = func(frame string) { self.hw.Render.Show(frame) }
	self.disp.Show = func(frame string) { self.hw.Render.Show(frame) }

	self.countdown = Countdown{
		Seg:      self.hw.Seg,
		Duration: helpers.IntSecondDefault(c.UI.Front.IdleSec, 9*time.Second),
	}
	self.heartbeat = Heartbeat{
		Seg:    self.hw.Seg,
		Period: helpers.IntMillisecondDefault(c.UI.Service.HeartbeatMs, 500*time.Millisecond),
	}

	self.password = c.UI.Service.Password
	self.gateTimeout = helpers.IntSecondDefault(c.UI.Service.GateSec, 8*time.Second)
	self.maxDispense = c.UI.Front.MaxDispense
	self.payRepeat = c.UI.Front.PayKeyRepeat

	self.errShort = helpers.IntMillisecondDefault(c.UI.Feedback.ErrShortMs, 700*time.Millisecond)
	self.errLong = helpers.IntMillisecondDefault(c.UI.Feedback.ErrLongMs, 1200*time.Millisecond)
	self.doneDelay = helpers.IntMillisecondDefault(c.UI.Feedback.DoneMs, 1200*time.Millisecond)
	self.successDelay = helpers.IntMillisecondDefault(c.UI.Feedback.SuccessMs, 5*time.Second)
	self.oosDelay = helpers.IntMillisecondDefault(c.UI.Feedback.OosMs, 4500*time.Millisecond)

	self.doorFrames = c.UI.Anim.DoorFrames
	self.dispFrames = c.UI.Anim.DispenseFrames
	self.doorCadence = helpers.IntMillisecondDefault(c.UI.Anim.DoorCadenceMs, 800*time.Millisecond)
	self.dispCadence = helpers.IntMillisecondDefault(c.UI.Anim.DispenseCadenceMs, 800*time.Millisecond)

	self.sync = dispense.Synchronizer{
		Motor: self.hw.Motor,
		Track: &self.disp,
		Now:   g.Now,
		Sleep: g.Sleep,
		Log:   g.Log,
		Cfg: dispense.Config{
			UnitDuration:   helpers.IntSecondDefault(c.Dispense.UnitSec, 0),
			StepsPerUnit:   c.Dispense.StepsPerUnit,
			UnitGap:        helpers.IntMillisecondDefault(c.Dispense.UnitGapMs, 0),
			TestSteps:      c.Dispense.TestSteps,
			TestPhaseDelay: time.Duration(c.Dispense.TestPhaseUs) * time.Microsecond,
			TestGap:        helpers.IntMillisecondDefault(c.Dispense.TestGapMs, 0),
		},
	}
	self.sync.Cfg.SetDefaults()

	codes := make([]string, 0, g.Inventory.Len())
	g.Inventory.Iter(func(item *inventory.Item) {
		codes = append(codes, strconv.Itoa(item.Code))
	})
	self.codeHint = "Try " + strings.Join(codes, "/")

	self.toMenu()
	return nil
}

func (self *UI) Loop(ctx context.Context) {
	self.g.Alive.Add(1)
	defer self.g.Alive.Done()
	for self.g.Alive.IsRunning() && self.State != StateStop {
		self.Step()
		self.g.Sleep(pollDelay)
	}
	self.log.Debugf("ui loop stop state=%s", self.State.String())
}

// Step runs one poll iteration: animation ticks, then door transitions, gate
// timeouts and the countdown, then at most one input event. An expired timer
// always preempts a late keypress in the same iteration.
func (self *UI) Step() {
	now := self.g.Now()
	self.door.Tick(now)
	self.disp.Tick(now)

	// door-animation completion is the sole trigger for mode and port
	// addressing changes
	if self.State == StateDoorOpening && self.door.Done() {
		self.hw.SetMode(hardware.ModeService)
		self.heartbeat.Reset()
		self.toSvcMenu()
		return
	}
	if self.State == StateDoorClosing && self.door.Done() {
		self.hw.SetMode(hardware.ModeNormal)
		self.toMenu()
		return
	}

	if self.State == StateSvcGate && self.gateDeadline > 0 && now >= self.gateDeadline {
		self.gateDeadline = 0
		self.hw.Beep.Error()
		self.toMenu()
		return
	}
	if self.State == StateReturnGate && self.gateDeadline > 0 && now >= self.gateDeadline {
		self.gateDeadline = 0
		self.hw.Beep.Error()
		self.toSvcMenu()
		return
	}

	if self.hw.Mode() == hardware.ModeService {
		self.heartbeat.Tick(now)
	} else if self.timerActive() {
		self.countdown.UpdateDisplay(now)
		if self.countdown.Expired(now) {
			self.hw.Beep.Error()
			self.toMenu()
			return
		}
	}

	if self.State == StateDispensing {
		self.runDispense()
		return
	}

	e := self.hw.Input.Poll()
	if e.IsZero() {
		return
	}
	if self.State == StateDoorOpening || self.State == StateDoorClosing {
		// door motion ignores input
		return
	}
	self.hw.Beep.Keypress()
	self.hw.Input.WaitRelease()
	self.dispatch(e.Key)
}

func (self *UI) timerActive() bool {
	switch self.State {
	case StateMenu, StateAmount, StatePay:
		return self.countdown.Active()
	}
	return false
}

func (self *UI) dispatch(key types.Key) {
	// gates confirm on any key
	switch self.State {
	case StateSvcGate:
		self.gateDeadline = 0
		self.door.Arm(self.doorFrames, +1, self.doorCadence, self.g.Now())
		self.State = StateDoorOpening
		return
	case StateReturnGate:
		self.gateDeadline = 0
		self.door.Arm(self.doorFrames, -1, self.doorCadence, self.g.Now())
		self.State = StateDoorClosing
		return
	}

	if self.hw.Mode() == hardware.ModeService {
		self.dispatchService(key)
		return
	}
	self.dispatchFront(key)
}

func (self *UI) toMenu() {
	self.State = StateMenu
	self.sel = self.sel[:0]
	self.amt = self.amt[:0]
	self.svc = self.svc[:0]
	self.item = nil
	self.svcItem = nil
	self.qty = 0
	self.zeroRun = 0
	self.countdown.Stop()
	self.showMenu()
}

func (self *UI) showMenu() {
	self.hw.Render.Show(self.cfg.UI.Img.Menu)
	self.hw.Panel.Print2(self.cfg.UI.Front.MsgMenu1+string(self.sel), self.cfg.UI.Front.MsgMenu2)
}

func (self *UI) toSvcMenu() {
	self.State = StateSvcMenu
	self.sel = self.sel[:0]
	self.svc = self.svc[:0]
	self.svcItem = nil
	self.showSvcMenu()
}

func (self *UI) showSvcMenu() {
	self.hw.Render.Show(self.cfg.UI.Img.Service)
	self.hw.Panel.Print2("Svc:"+string(self.sel), "B=OK 1-4/1234")
}

// errFeedback blocks for the feedback duration; the poll loop resumes after.
func (self *UI) errFeedback(d time.Duration, line1, line2 string) {
	self.hw.Beep.Error()
	self.hw.Panel.Print2(line1, line2)
	self.g.Sleep(d)
}

func (self *UI) runDispense() {
	now := self.g.Now()
	if !self.disp.Running() && !self.disp.Done() {
		self.disp.Arm(self.dispFrames, +1, self.dispCadence, now)
	}
	if err := self.sync.Run(self.qty); err != nil {
		self.g.Error(err)
	}

	self.hw.Render.Show(self.cfg.UI.Img.Success)
	self.hw.Panel.Print2("Done!", "Thank you")
	self.hw.Beep.Success()
	self.g.Sleep(self.successDelay)

	self.item.Spend(self.qty)
	self.toMenu()
}
