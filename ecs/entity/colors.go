package entity

import "image/color"

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
