package ui

type State uint32

const (
	StateInvalid State = iota

	// customer flow
	StateMenu
	StateAmount
	StatePay
	StateDispensing

	// mode transition
	StateSvcGate
	StateDoorOpening
	StateReturnGate
	StateDoorClosing

	// service flow
	StateSvcMenu
	StateSvcDispenseIdx
	StateSvcDispenseAmt
	StateSvcRestockIdx
	StateSvcRestockQty
	StateSvcSound
	StateSvcMotor

	StateStop
)

func (s State) String() string {
	switch s {
	case StateInvalid:
		return "Invalid"
	case StateMenu:
		return "Menu"
	case StateAmount:
		return "Amount"
	case StatePay:
		return "Pay"
	case StateDispensing:
		return "Dispensing"
	case StateSvcGate:
		return "SvcGate"
	case StateDoorOpening:
		return "DoorOpening"
	case StateReturnGate:
		return "ReturnGate"
	case StateDoorClosing:
		return "DoorClosing"
	case StateSvcMenu:
		return "SvcMenu"
	case StateSvcDispenseIdx:
		return "SvcDispenseIdx"
	case StateSvcDispenseAmt:
		return "SvcDispenseAmt"
	case StateSvcRestockIdx:
		return "SvcRestockIdx"
	case StateSvcRestockQty:
		return "SvcRestockQty"
	case StateSvcSound:
		return "SvcSound"
	case StateSvcMotor:
		return "SvcMotor"
	case StateStop:
		return "Stop"
	}
	return "unknown"
}
