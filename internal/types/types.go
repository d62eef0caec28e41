// Package types holds small types shared by ui and hardware to avoid import cycles.
package types

// Key is a decoded keypad key: '0'..'9', KeyBack, KeyEnter.
type Key byte

const (
	KeyNone  Key = 0
	KeyBack  Key = 'A'
	KeyEnter Key = 'B'
)

func (k Key) IsDigit() bool { return k >= '0' && k <= '9' }

type InputEvent struct {
	Source string
	Key    Key
}

func (e InputEvent) IsZero() bool { return e.Key == KeyNone }
