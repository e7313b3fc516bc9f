package arcade

// Button identifies one arcade button by its HID usage ID.
type Button uint8

const (
	ButtonMin Button = 1
	ButtonMax Button = ButtonCount
)

func (b Button) valid() bool {
	return b >= ButtonMin && b <= ButtonMax
}

func (b Button) mask() uint32 {
	return 1 << (b - 1)
}

// Set sets the state of one button. Out-of-range buttons are ignored.
func (st *InputState) Set(b Button, pressed bool) {
	if !b.valid() {
		return
	}
	if pressed {
		st.Buttons |= b.mask()
	} else {
		st.Buttons &^= b.mask()
	}
}

// Press presses a button.
func (st *InputState) Press(b Button) {
	st.Set(b, true)
}

// Release releases a button.
func (st *InputState) Release(b Button) {
	st.Set(b, false)
}

// IsPressed returns true if a button is currently pressed.
func (st InputState) IsPressed(b Button) bool {
	if !b.valid() {
		return false
	}
	return st.Buttons&b.mask() != 0
}

// Pressed returns the usage IDs of all pressed buttons in ascending order.
func (st InputState) Pressed() []Button {
	var out []Button
	for b := ButtonMin; b <= ButtonMax; b++ {
		if st.IsPressed(b) {
			out = append(out, b)
		}
	}
	return out
}
