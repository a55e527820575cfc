package component

// Interactable marks an entity the pointer can select. Radius is the hit
// radius in screen pixels. The interact system fills the screen fields every
// frame.
type Interactable struct {
	Item    string
	Radius  float64
	ScreenX float64
	ScreenY float64
	Visible bool
	Hovered bool
}

var InteractableComponent = NewComponent[Interactable]()
