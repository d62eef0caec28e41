// Package input fans keypad events from all sources into one non-blocking poll.
//
// The matrix keypad is scanned synchronously by the caller's loop; extra
// sources (bench keyboards via evdev) run goroutines that only feed a channel
// and never touch machine state.
package input

import (
	"time"

	"github.com/temoto/alive/v2"
	"github.com/temoto/snackbox/hardware/keyboard"
	"github.com/temoto/snackbox/internal/types"
	"github.com/temoto/snackbox/log2"
)

const MatrixTag = "matrix"

type Source interface {
	Read() (types.InputEvent, error)
	String() string
}

type Fanin struct {
	log   *log2.Log
	alive *alive.Alive
	kb    *keyboard.Keyboard
	bus   chan types.InputEvent
}

func NewFanin(log *log2.Log, kb *keyboard.Keyboard) *Fanin {
	return &Fanin{
		log:   log,
		alive: alive.NewAlive(),
		kb:    kb,
		bus:   make(chan types.InputEvent, 16),
	}
}

// Poll returns one pending event without blocking; zero event when idle.
// Side sources win over the matrix only because their events are already
// buffered; ordering between sources is not significant.
func (self *Fanin) Poll() types.InputEvent {
	select {
	case e := <-self.bus:
		return e
	default:
	}
	if self.kb != nil {
		if k := self.kb.Scan(); k != types.KeyNone {
			return types.InputEvent{Source: MatrixTag, Key: k}
		}
	}
	return types.InputEvent{}
}

func (self *Fanin) WaitRelease() {
	if self.kb != nil {
		self.kb.WaitRelease()
	}
}

// Run starts reader goroutines for side sources. Matrix scanning stays in Poll.
func (self *Fanin) Run(sources []Source) {
	for _, source := range sources {
		self.alive.Add(1)
		go self.readSource(source)
	}
}

func (self *Fanin) Stop() {
	self.alive.Stop()
	self.alive.Wait()
}

func (self *Fanin) readSource(source Source) {
	defer self.alive.Done()
	stopch := self.alive.StopChan()
	for self.alive.IsRunning() {
		event, err := source.Read()
		if err != nil {
			self.log.Errorf("input source=%s err=%v", source.String(), err)
			select {
			case <-stopch:
			case <-time.After(time.Second):
			}
			continue
		}
		if event.IsZero() {
			continue
		}
		select {
		case self.bus <- event:
		case <-stopch:
			return
		}
	}
}
