package component

// Glitch drives the full-screen scanline pass. Intensity decays by Decay each
// tick back to Floor.
type Glitch struct {
	Intensity float64
	Floor     float64
	Decay     float64
	Time      float64
}

var GlitchComponent = NewComponent[Glitch]()
