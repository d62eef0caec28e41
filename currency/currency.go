package currency

import "fmt"

// Amount is integer counting lowest currency unit, e.g. $1.20 = 120
type Amount uint32

func (self Amount) Format100I() string { return fmt.Sprintf("%d.%02d", self/100, self%100) }

// FormatDollar is Format100I with the terminal's currency sign prefix.
func (self Amount) FormatDollar() string { return "$" + self.Format100I() }

// Mul is price * quantity without silent wrap for realistic catalog values.
func (self Amount) Mul(n int) Amount {
	if n < 0 {
		return 0
	}
	return self * Amount(n)
}
