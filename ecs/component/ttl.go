package component

// TTL destroys its entity after Frames update ticks.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()

// Pulse is an expanding screen-space ring left behind by a click. Age and
// Life are in ticks.
type Pulse struct {
	X, Y      float64
	MaxRadius float64
	Age       int
	Life      int
	Color     [4]float32
}

var PulseComponent = NewComponent[Pulse]()
