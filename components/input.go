package components

import "strings"

// Button identifies a tracked-controller face button.
type Button uint8

const (
	ButtonX Button = iota // Left controller, lower
	ButtonY               // Left controller, upper
	ButtonA               // Right controller, lower
	ButtonB               // Right controller, upper
)

// ParseButton maps a button name to a Button, ignoring case.
func ParseButton(name string) (Button, bool) {
	switch strings.ToLower(name) {
	case "x":
		return ButtonX, true
	case "y":
		return ButtonY, true
	case "a":
		return ButtonA, true
	case "b":
		return ButtonB, true
	}
	return 0, false
}

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonX:
		return "x"
	case ButtonY:
		return "y"
	case ButtonA:
		return "a"
	case ButtonB:
		return "b"
	default:
		return "unknown"
	}
}
