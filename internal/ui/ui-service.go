package ui

import (
	"fmt"
	"strconv"

	"github.com/temoto/snackbox/internal/types"
)

func (self *UI) dispatchService(key types.Key) {
	switch {
	case key == types.KeyBack:
		// BACK anywhere in service returns to the service menu
		self.toSvcMenu()
	case key.IsDigit():
		self.serviceDigit(byte(key))
	case key == types.KeyEnter:
		self.serviceEnter()
	default:
		self.hw.Beep.Error()
	}
}

func (self *UI) serviceDigit(d byte) {
	if self.State == StateSvcMenu {
		if len(self.sel) < selMax {
			self.sel = append(self.sel, d)
		}
		self.showSvcMenu()
		return
	}

	if len(self.svc) < svcMax {
		self.svc = append(self.svc, d)
	}
	self.showSvcPrompt()
}

func (self *UI) showSvcPrompt() {
	img := &self.cfg.UI.Img
	typed := string(self.svc)
	switch self.State {
	case StateSvcDispenseIdx:
		self.hw.Render.Show(img.SvcMenu)
		self.hw.Panel.Print2("Disp idx:"+typed, "B=OK  A=Back")
	case StateSvcDispenseAmt:
		self.hw.Render.Show(img.SvcMenu)
		self.hw.Panel.Print2("Amt:"+typed, "B=Run A=Back")
	case StateSvcRestockIdx:
		self.hw.Render.Show(img.Restock)
		self.hw.Panel.Print2("Restock idx:"+typed, "B=OK  A=Back")
	case StateSvcRestockQty:
		self.hw.Render.Show(img.Restock)
		self.hw.Panel.Print2("New stock:"+typed, "B=OK  A=Back")
	case StateSvcSound:
		self.hw.Render.Show(img.Sound)
		self.hw.Panel.Print2("Sound 1-8:"+typed, "B=Play A=Back")
	case StateSvcMotor:
		self.hw.Render.Show(img.Motor)
		self.hw.Panel.Print2("Motor cyc:"+typed, "B=Run A=Back")
	}
}

func (self *UI) serviceEnter() {
	switch self.State {
	case StateSvcMenu:
		self.svcMenuEnter()
	case StateSvcDispenseIdx:
		self.svcDispenseIdxEnter()
	case StateSvcDispenseAmt:
		self.svcDispenseAmtEnter()
	case StateSvcRestockIdx:
		self.svcRestockIdxEnter()
	case StateSvcRestockQty:
		self.svcRestockQtyEnter()
	case StateSvcSound:
		self.svcSoundEnter()
	case StateSvcMotor:
		self.svcMotorEnter()
	default:
		self.hw.Beep.Error()
	}
}

func (self *UI) svcMenuEnter() {
	entry := string(self.sel)
	self.sel = self.sel[:0]
	self.svc = self.svc[:0]

	switch entry {
	case self.password:
		self.toReturnGate()
	case "1":
		self.State = StateSvcDispenseIdx
		self.hw.Render.Show(self.cfg.UI.Img.SvcMenu)
		self.hw.Panel.Print2("Disp idx:", "B=OK  A=Back")
	case "2":
		self.State = StateSvcRestockIdx
		self.hw.Render.Show(self.cfg.UI.Img.Restock)
		self.hw.Panel.Print2("Restock idx:", "B=OK  A=Back")
	case "3":
		self.State = StateSvcSound
		self.hw.Render.Show(self.cfg.UI.Img.Sound)
		self.hw.Panel.Print2("Sound 1-8:", "B=Play A=Back")
	case "4":
		self.State = StateSvcMotor
		self.hw.Render.Show(self.cfg.UI.Img.Motor)
		self.hw.Panel.Print2("Motor cyc 1-15", "B=Run A=Back")
	default:
		self.errFeedback(self.errShort, "Invalid choice", "Use 1-4 or "+self.password)
		self.showSvcMenu()
	}
}

func (self *UI) svcDispenseIdxEnter() {
	if len(self.svc) == 0 {
		self.errFeedback(self.errShort, "No index", "Type digits")
		self.showSvcPrompt()
		return
	}
	code, _ := strconv.Atoi(string(self.svc))
	self.svc = self.svc[:0]
	item, ok := self.g.Inventory.ByCode(code)
	if !ok {
		self.errFeedback(self.errShort, "Bad idx", self.codeHint)
		self.showSvcPrompt()
		return
	}

	self.svcItem = item
	self.hw.Render.Show(item.Img)
	self.State = StateSvcDispenseAmt
	self.hw.Panel.Print2("Amount 1-15:", "B=Run A=Back")
}

func (self *UI) svcDispenseAmtEnter() {
	if len(self.svc) == 0 {
		self.errFeedback(self.errShort, "No amount", "Type digits")
		self.showSvcPrompt()
		return
	}
	qty, _ := strconv.Atoi(string(self.svc))
	self.svc = self.svc[:0]
	if qty < 1 || qty > self.maxDispense {
		self.errFeedback(self.errShort, fmt.Sprintf("Amount 1-%d", self.maxDispense), "Try again")
		self.showSvcPrompt()
		return
	}
	if qty > self.svcItem.Stock() {
		self.errFeedback(self.errShort, "Insufficient", "stock")
		self.showSvcPrompt()
		return
	}

	self.hw.Panel.Print2("Service Disp", "Dispensing...")
	self.disp.Arm(self.dispFrames, +1, self.dispCadence, self.g.Now())
	if err := self.sync.Run(qty); err != nil {
		self.g.Error(err)
	}
	self.svcItem.Spend(qty)

	self.hw.Beep.Success()
	self.hw.Panel.Print2("Service Done", "A=Back")
	self.g.Sleep(self.doneDelay)
	self.toSvcMenu()
}

func (self *UI) svcRestockIdxEnter() {
	if len(self.svc) == 0 {
		self.errFeedback(self.errShort, "No index", "Type digits")
		self.showSvcPrompt()
		return
	}
	code, _ := strconv.Atoi(string(self.svc))
	self.svc = self.svc[:0]
	item, ok := self.g.Inventory.ByCode(code)
	if !ok {
		self.errFeedback(self.errShort, "Bad idx", self.codeHint)
		self.showSvcPrompt()
		return
	}

	self.svcItem = item
	self.hw.Render.Show(item.Img)
	self.State = StateSvcRestockQty
	self.hw.Panel.Print2("New stock 1-15", "B=OK  A=Back")
}

func (self *UI) svcRestockQtyEnter() {
	if len(self.svc) == 0 {
		self.errFeedback(self.errShort, "No stock", "Type 1-15")
		self.showSvcPrompt()
		return
	}
	n, _ := strconv.Atoi(string(self.svc))
	self.svc = self.svc[:0]
	if n < 1 || n > self.maxDispense {
		self.errFeedback(self.errShort, "Stock must", fmt.Sprintf("be 1-%d", self.maxDispense))
		self.showSvcPrompt()
		return
	}

	self.svcItem.SetStock(n)
	self.hw.Beep.Success()
	self.hw.Panel.Print2("Restocked", fmt.Sprintf("Stock=%d", n))
	self.g.Sleep(self.doneDelay)
	self.toSvcMenu()
}

func (self *UI) svcSoundEnter() {
	if len(self.svc) == 0 {
		self.errFeedback(self.errShort, "Pick 1-8", "Type digit")
		self.showSvcPrompt()
		return
	}
	s, _ := strconv.Atoi(string(self.svc))
	self.svc = self.svc[:0]
	if s < 1 || s > 8 {
		self.errFeedback(self.errShort, "Sound must", "be 1-8")
		self.showSvcPrompt()
		return
	}

	self.hw.Panel.Print2("Playing...", "Please wait")
	self.g.Sleep(soundSettle)
	self.playCue(s)

	// stays in sound selection
	self.showSvcPrompt()
}

func (self *UI) playCue(s int) {
	switch s {
	case 1:
		self.hw.Beep.Keypress()
	case 2:
		self.hw.Beep.Error()
	case 3:
		self.hw.Beep.Success()
	case 4:
		self.hw.Beep.PaymentOK()
	default:
		self.hw.Beep.DispensingSlot(s - 4)
	}
}

func (self *UI) svcMotorEnter() {
	if len(self.svc) == 0 {
		self.errFeedback(self.errShort, "No cycles", "Type 1-15")
		self.showSvcPrompt()
		return
	}
	cycles, _ := strconv.Atoi(string(self.svc))
	self.svc = self.svc[:0]
	if cycles < 1 || cycles > self.maxDispense {
		self.errFeedback(self.errShort, "Cycles must", fmt.Sprintf("be 1-%d", self.maxDispense))
		self.showSvcPrompt()
		return
	}

	self.hw.Panel.Print2("Motor test", "Running...")
	if err := self.sync.TestSpin(cycles); err != nil {
		self.g.Error(err)
	}
	self.hw.Beep.Success()

	// stays here for more tests
	self.showSvcPrompt()
}

func (self *UI) toReturnGate() {
	self.State = StateReturnGate
	self.gateDeadline = self.g.Now() + self.gateTimeout
	self.hw.Render.Show(self.cfg.UI.Img.Service)
	self.hw.Panel.Print2("Revert SA5 DIP", "Press any key")
}
