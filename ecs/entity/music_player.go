package entity

import (
	"fmt"

	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
)

// NewMusicPlayer creates the single entity holding music state. Players are
// registered lazily by the music system.
func NewMusicPlayer(w *ecs.World, master float64, muted bool) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{
		Players:      make(map[string]component.TrackPlayer),
		TrackVolumes: make(map[string]float64),
		Master:       master,
		Muted:        muted,
	}); err != nil {
		return 0, fmt.Errorf("music player: add component: %w", err)
	}
	return ent, nil
}

// NewSoundBank creates the entity carrying one-shot interface sounds. A nil
// player leaves its slot silent.
func NewSoundBank(w *ecs.World, names []string, players []component.TrackPlayer, volume float64) (ecs.Entity, error) {
	if len(names) != len(players) {
		return 0, fmt.Errorf("sound bank: %d names for %d players", len(names), len(players))
	}
	volumes := make([]float64, len(names))
	for i := range volumes {
		volumes[i] = volume
	}
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.AudioComponent.Kind(), &component.Audio{
		Names:   append([]string(nil), names...),
		Players: append([]component.TrackPlayer(nil), players...),
		Volume:  volumes,
		Play:    make([]bool, len(names)),
	}); err != nil {
		return 0, fmt.Errorf("sound bank: add component: %w", err)
	}
	return ent, nil
}

// NewGlitch creates the screen effect entity.
func NewGlitch(w *ecs.World, floor float64) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.GlitchComponent.Kind(), &component.Glitch{
		Intensity: floor,
		Floor:     floor,
		Decay:     0.02,
	}); err != nil {
		return 0, fmt.Errorf("glitch: add component: %w", err)
	}
	return ent, nil
}
