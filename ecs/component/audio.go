package component

// Audio holds one-shot interface sounds. Setting Play[i] starts Players[i]
// from the beginning on the next update.
type Audio struct {
	Names   []string
	Players []TrackPlayer
	Volume  []float64
	Play    []bool
}

var AudioComponent = NewComponent[Audio]()
