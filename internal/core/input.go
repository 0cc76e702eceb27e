package core

import (
	"fmt"
	"strings"
)

// Button is a single digital button, encoded as its bit in the keypad
// register. Bit order follows KEYINPUT: A, B, Select, Start, Right, Left,
// Up, Down, R, L.
type Button uint16

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonR
	ButtonL
)

// KeyMask covers every button bit of the keypad register.
const KeyMask uint16 = 0x03FF

// buttonNames lists buttons in register bit order.
var buttonNames = []struct {
	b    Button
	name string
}{
	{ButtonA, "A"},
	{ButtonB, "B"},
	{ButtonSelect, "Select"},
	{ButtonStart, "Start"},
	{ButtonRight, "Right"},
	{ButtonLeft, "Left"},
	{ButtonUp, "Up"},
	{ButtonDown, "Down"},
	{ButtonR, "R"},
	{ButtonL, "L"},
}

// String returns a human-readable name for the button.
func (b Button) String() string {
	for _, bn := range buttonNames {
		if bn.b == b {
			return bn.name
		}
	}
	return "Unknown"
}

// ParseButton resolves a case-insensitive button name.
func ParseButton(name string) (Button, error) {
	for _, bn := range buttonNames {
		if strings.EqualFold(bn.name, strings.TrimSpace(name)) {
			return bn.b, nil
		}
	}
	return 0, fmt.Errorf("core: unknown button %q", name)
}

// ButtonSet is a snapshot of held buttons. A set bit means pressed.
// Any combination is valid, including opposite directions.
type ButtonSet uint16

// ButtonSetFromRegister converts an active-low keypad register value into a
// set of held buttons.
func ButtonSetFromRegister(reg uint16) ButtonSet {
	return ButtonSet(^reg & KeyMask)
}

// Register converts the set back to its active-low register encoding.
func (s ButtonSet) Register() uint16 {
	return ^uint16(s) & KeyMask
}

// Has returns true if the button is held in this set.
func (s ButtonSet) Has(b Button) bool {
	return uint16(s)&uint16(b) != 0
}

// IsPressed is Has under the name the motion model queries.
func (s ButtonSet) IsPressed(b Button) bool {
	return s.Has(b)
}

// With returns a copy of the set with b held.
func (s ButtonSet) With(b Button) ButtonSet {
	return s | ButtonSet(b)
}

// Without returns a copy of the set with b released.
func (s ButtonSet) Without(b Button) ButtonSet {
	return s &^ ButtonSet(b)
}

// Buttons lists the held buttons in register bit order.
func (s ButtonSet) Buttons() []Button {
	var out []Button
	for _, bn := range buttonNames {
		if s.Has(bn.b) {
			out = append(out, bn.b)
		}
	}
	return out
}

// String joins the held button names with '+', or "-" when nothing is held.
func (s ButtonSet) String() string {
	held := s.Buttons()
	if len(held) == 0 {
		return "-"
	}
	names := make([]string, len(held))
	for i, b := range held {
		names[i] = b.String()
	}
	return strings.Join(names, "+")
}

// ParseButtonSet parses a comma separated list such as "right,down".
// An empty string yields an empty set.
func ParseButtonSet(list string) (ButtonSet, error) {
	var s ButtonSet
	if strings.TrimSpace(list) == "" {
		return s, nil
	}
	for _, part := range strings.Split(list, ",") {
		b, err := ParseButton(part)
		if err != nil {
			return 0, err
		}
		s = s.With(b)
	}
	return s, nil
}
