package component

import "image/color"

// Label is text drawn at the projected position of the entity, Offset world
// units above it. Sub is a smaller second line.
type Label struct {
	Text   string
	Sub    string
	Color  color.NRGBA
	Offset float64
}

var LabelComponent = NewComponent[Label]()
