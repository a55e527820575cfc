package system

import (
	"errors"

	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
)

var errNoLoader = errors.New("no track loader configured")

// AudioSystem plays queued one-shot sounds from the sound bank.
type AudioSystem struct {
	muted bool
}

func NewAudioSystem(muted bool) *AudioSystem {
	return &AudioSystem{muted: muted}
}

func (a *AudioSystem) SetMuted(muted bool) {
	a.muted = muted
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, audioComp *component.Audio) {
		count := min(len(audioComp.Play), len(audioComp.Players))
		for i := 0; i < count; i++ {
			if !audioComp.Play[i] {
				continue
			}
			audioComp.Play[i] = false

			player := audioComp.Players[i]
			if player == nil || a.muted {
				continue
			}
			if player.IsPlaying() {
				player.Pause()
			}
			vol := 1.0
			if i < len(audioComp.Volume) {
				vol = audioComp.Volume[i]
			}
			player.SetVolume(vol)
			_ = player.Rewind()
			player.Play()
		}
	})
}

// PlaySound queues the named sound on every sound bank. Unknown names are
// ignored.
func PlaySound(w *ecs.World, name string) bool {
	found := false
	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, audioComp *component.Audio) {
		for i, n := range audioComp.Names {
			if n == name && i < len(audioComp.Play) {
				audioComp.Play[i] = true
				found = true
			}
		}
	})
	return found
}
