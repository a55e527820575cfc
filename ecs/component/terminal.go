package component

// TerminalField is one line of the contact form.
type TerminalField struct {
	Label string
	Value string
}

// Terminal is the text input of the contact scene.
type Terminal struct {
	Prompt   string
	MaxChars int
	Fields   []TerminalField
	Focus    int
	Error    string
	Sent     bool
	Frames   int
}

var TerminalComponent = NewComponent[Terminal]()
