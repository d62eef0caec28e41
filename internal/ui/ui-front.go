package ui

import (
	"fmt"
	"strconv"

	"github.com/temoto/snackbox/internal/types"
)

func (self *UI) dispatchFront(key types.Key) {
	switch {
	case key == types.KeyBack:
		self.frontBack()
	case key.IsDigit():
		self.frontDigit(byte(key))
	case key == types.KeyEnter:
		self.frontEnter()
	default:
		self.hw.Beep.Error()
	}
}

// BACK deletes one digit while the buffer has any; an empty buffer cancels
// the current step instead.
func (self *UI) frontBack() {
	switch self.State {
	case StateMenu:
		if n := len(self.sel); n > 0 {
			self.sel = self.sel[:n-1]
		}
		self.showMenu()
		if len(self.sel) == 0 {
			self.countdown.Stop()
		}
	case StateAmount:
		if n := len(self.amt); n > 0 {
			self.amt = self.amt[:n-1]
			self.showAmount()
			return
		}
		self.toMenu()
	default:
		self.toMenu()
	}
}

func (self *UI) frontDigit(d byte) {
	switch self.State {
	case StateMenu:
		if len(self.sel) < selMax {
			self.sel = append(self.sel, d)
		}
		self.showMenu()
		if !self.countdown.Active() && len(self.sel) > 0 {
			now := self.g.Now()
			self.countdown.Start(now)
			self.countdown.UpdateDisplay(now)
		}

	case StateAmount:
		if len(self.amt) < amtMax {
			self.amt = append(self.amt, d)
		}
		self.showAmount()

	case StatePay:
		if d == '0' {
			self.zeroRun++
		} else {
			self.zeroRun = 0
		}
		if self.zeroRun >= self.payRepeat {
			self.hw.Beep.PaymentOK()
			self.hw.Panel.Print2("Payment OK", "Dispensing...")
			self.disp.Reset()
			self.State = StateDispensing
			return
		}
		self.hw.Panel.Print2("Pay: enter 00", "Press 0 twice")

	default:
		self.hw.Beep.Error()
	}
}

func (self *UI) frontEnter() {
	switch self.State {
	case StateMenu:
		self.menuEnter()
	case StateAmount:
		self.amountEnter()
	default:
		// ENTER means nothing while paying
		self.hw.Beep.Error()
	}
}

func (self *UI) menuEnter() {
	if len(self.sel) == 0 {
		self.errFeedback(self.errShort, "No index", "Type digits")
		self.showMenu()
		return
	}

	entry := string(self.sel)
	self.sel = self.sel[:0]
	self.countdown.Stop()

	if entry == self.password {
		self.toSvcGate()
		return
	}

	code, _ := strconv.Atoi(entry)
	item, ok := self.g.Inventory.ByCode(code)
	if !ok {
		self.errFeedback(self.errLong, "Invalid index", self.codeHint)
		self.showMenu()
		return
	}

	self.hw.Render.Show(item.Img)
	if item.Stock() <= 0 {
		self.hw.Render.Show(item.ImgOOS)
		self.hw.Panel.Print2(item.Name, "OUT OF STOCK")
		self.g.Sleep(self.oosDelay)
		self.showMenu()
		return
	}

	self.item = item
	self.amt = self.amt[:0]
	self.State = StateAmount
	now := self.g.Now()
	self.countdown.Start(now)
	self.countdown.UpdateDisplay(now)
	self.showAmount()
}

func (self *UI) amountEnter() {
	if len(self.amt) == 0 {
		self.errFeedback(self.errShort, "No amount", "Type digits")
		self.showAmount()
		return
	}

	qty, _ := strconv.Atoi(string(self.amt))
	if qty < 1 || qty > self.maxDispense {
		self.errFeedback(self.errShort, "Amount must", fmt.Sprintf("be 1-%d", self.maxDispense))
		self.amt = self.amt[:0]
		self.showAmount()
		return
	}
	if qty > self.item.Stock() {
		self.errFeedback(self.errShort, "Insufficient", "stock")
		self.amt = self.amt[:0]
		self.showAmount()
		return
	}

	self.qty = qty
	total := self.item.Price.Mul(qty)
	self.hw.Panel.Print2("Total "+total.FormatDollar(), "Pay: enter 00")
	self.State = StatePay
	self.zeroRun = 0
	now := self.g.Now()
	self.countdown.Start(now)
	self.countdown.UpdateDisplay(now)
}

func (self *UI) showAmount() {
	self.hw.Panel.Print2(
		"Enter amount:"+string(self.amt),
		fmt.Sprintf("Stock: %d", self.item.Stock()),
	)
}

func (self *UI) toSvcGate() {
	self.State = StateSvcGate
	self.gateDeadline = self.g.Now() + self.gateTimeout
	self.hw.Render.Show(self.cfg.UI.Img.Menu)
	self.hw.Panel.Print2("Flip SA5 DIP", "Press any key")
}
