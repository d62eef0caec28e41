// Package inventory is the fixed item catalog.
//
// Items are created once at startup and never added or removed at runtime.
// Stock mutates only on successful dispense (decrement) and service restock
// (absolute set). Single-threaded by construction, no locking.
package inventory

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/snackbox/currency"
	"github.com/temoto/snackbox/log2"
)

const (
	RestockMin = 1
	RestockMax = 15
)

// Item is one vended product. Code is the stable selection index typed on
// the keypad, not an array position.
type Item struct {
	Code   int
	Name   string
	Price  currency.Amount
	Img    string
	ImgOOS string

	stock int
}

func (self *Item) Stock() int { return self.stock }

// Spend decrements stock by n, floored at zero. Sufficiency is validated by
// the caller before dispensing.
func (self *Item) Spend(n int) {
	self.stock -= n
	if self.stock < 0 {
		self.stock = 0
	}
}

// SetStock is the service restock absolute set. Range is bounded by the
// caller (RestockMin..RestockMax); this is not the purchase sufficiency check.
func (self *Item) SetStock(n int) { self.stock = n }

func (self *Item) String() string {
	return fmt.Sprintf("item(code=%d name=%s price=%s stock=%d)", self.Code, self.Name, self.Price.Format100I(), self.stock)
}

type Config struct {
	Name   string `hcl:"name,key"`
	Code   int    `hcl:"code"`
	Price  int    `hcl:"price"`
	Stock  int    `hcl:"stock"`
	Img    string `hcl:"img"`
	ImgOOS string `hcl:"img_oos"`
}

type Inventory struct {
	log   *log2.Log
	items []*Item
}

func (self *Inventory) Init(log *log2.Log, items []Config) error {
	self.log = log
	errs := make([]error, 0)
	for _, c := range items {
		if c.Name == "" {
			errs = append(errs, errors.Errorf("inventory item name=(empty) is invalid"))
			continue
		}
		if c.Code <= 0 {
			errs = append(errs, errors.Errorf("inventory item=%s invalid code=%d", c.Name, c.Code))
			continue
		}
		if _, ok := self.ByCode(c.Code); ok {
			errs = append(errs, errors.Errorf("inventory item=%s duplicate code=%d", c.Name, c.Code))
			continue
		}
		item := &Item{
			Code:   c.Code,
			Name:   c.Name,
			Price:  currency.Amount(c.Price),
			Img:    c.Img,
			ImgOOS: c.ImgOOS,
			stock:  c.Stock,
		}
		if item.stock < 0 {
			item.stock = 0
		}
		self.items = append(self.items, item)
		log.Debugf("inventory + %s", item.String())
	}
	if len(errs) != 0 {
		return errors.Errorf("inventory config: %v", errs)
	}
	if len(self.items) == 0 {
		return errors.Errorf("inventory config: no items")
	}
	return nil
}

// ByCode resolves the typed selection index to an item.
func (self *Inventory) ByCode(code int) (*Item, bool) {
	for _, item := range self.items {
		if item.Code == code {
			return item, true
		}
	}
	return nil, false
}

func (self *Inventory) Iter(fun func(*Item)) {
	for _, item := range self.items {
		fun(item)
	}
}

func (self *Inventory) Len() int { return len(self.items) }
