package component

// TrackPlayer is the part of *audio.Player the audio systems use.
type TrackPlayer interface {
	IsPlaying() bool
	Play()
	Pause()
	Rewind() error
	SetVolume(volume float64)
}

// MusicPlayer stores global music playback state on a dedicated entity. Only
// one track plays at a time; a new request fades the current one out first.
type MusicPlayer struct {
	Players      map[string]TrackPlayer
	TrackVolumes map[string]float64
	Master       float64
	Muted        bool

	CurrentTrack  string
	CurrentVolume float64

	PendingTrack  string
	PendingVolume float64
	PendingActive bool

	FadeStep float64
}

var MusicPlayerComponent = NewComponent[MusicPlayer]()

// MusicRequest is a one-shot request consumed by the music system. An empty
// Track fades to silence.
type MusicRequest struct {
	Track         string
	Volume        float64
	FadeOutFrames int
}

var MusicRequestComponent = NewComponent[MusicRequest]()
