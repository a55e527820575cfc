package component

// Input is this frame's pointer and keyboard state, written by the input
// system and read by everything else.
type Input struct {
	PointerX  float64
	PointerY  float64
	Click     bool
	Chars     []rune
	Paste     string
	Backspace bool
	Tab       bool
	Enter     bool
}

var InputComponent = NewComponent[Input]()
