package system

import (
	"strings"

	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/logging"
	"go.uber.org/zap"
)

const (
	defaultMusicVolume     = 0.3
	defaultMusicFadeFrames = 30
)

// TrackLoader creates a player for a named track the first time it is
// requested.
type TrackLoader func(track string) (component.TrackPlayer, error)

type MusicSystem struct {
	load   TrackLoader
	logger *zap.Logger
}

func NewMusicSystem(load TrackLoader, logger *zap.Logger) *MusicSystem {
	return &MusicSystem{load: load, logger: logging.OrNop(logger)}
}

func RequestMusic(w *ecs.World, track string, volume float64) {
	RequestMusicWithOptions(w, &component.MusicRequest{Track: track, Volume: volume, FadeOutFrames: defaultMusicFadeFrames})
}

func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), req)
}

func StopMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{FadeOutFrames: defaultMusicFadeFrames})
}

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	latest, requestEntities := m.consumeLatestRequest(w)
	for _, ent := range requestEntities {
		ecs.DestroyEntity(w, ent)
	}

	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	if player.Players == nil {
		player.Players = make(map[string]component.TrackPlayer)
	}
	if player.TrackVolumes == nil {
		player.TrackVolumes = make(map[string]float64)
	}

	if latest != nil {
		m.applyRequest(player, *latest)
	}

	if player.PendingActive {
		m.updateTransition(player)
		return
	}

	current := m.currentPlayer(player)
	if current != nil && !current.IsPlaying() && player.CurrentTrack != "" {
		_ = current.Rewind()
		current.SetVolume(m.output(player, player.CurrentVolume))
		current.Play()
	}
}

// SetMuted toggles output without losing the current track.
func SetMuted(w *ecs.World, muted bool) {
	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player.Muted = muted
	if cur, ok := player.Players[player.CurrentTrack]; ok && cur != nil {
		if muted {
			cur.SetVolume(0)
		} else {
			cur.SetVolume(player.CurrentVolume * player.Master)
		}
	}
}

// ForgetTrack drops the cached player for track so the next request loads
// it again. A forgotten current track stops; request it again to hear the
// new version.
func ForgetTrack(w *ecs.World, track string) {
	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	p, ok := player.Players[track]
	if !ok {
		return
	}
	delete(player.Players, track)
	if player.CurrentTrack != track {
		return
	}
	if p != nil {
		p.Pause()
	}
	player.CurrentTrack = ""
	player.CurrentVolume = 0
}

func (m *MusicSystem) consumeLatestRequest(w *ecs.World) (*component.MusicRequest, []ecs.Entity) {
	var latest *component.MusicRequest
	var requestEntities []ecs.Entity

	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ent ecs.Entity, req *component.MusicRequest) {
		requestEntities = append(requestEntities, ent)
		copy := *req
		latest = &copy
	})

	return latest, requestEntities
}

func (m *MusicSystem) applyRequest(player *component.MusicPlayer, req component.MusicRequest) {
	track := strings.TrimSpace(req.Track)
	volume := req.Volume
	if volume <= 0 {
		if v, ok := player.TrackVolumes[track]; ok && v > 0 {
			volume = v
		} else {
			volume = defaultMusicVolume
		}
	}
	if volume > 1 {
		volume = 1
	}
	if track != "" {
		player.TrackVolumes[track] = volume
	}
	fadeFrames := req.FadeOutFrames
	if fadeFrames <= 0 {
		fadeFrames = defaultMusicFadeFrames
	}

	current := m.currentPlayer(player)
	if track != "" && !player.PendingActive && player.CurrentTrack == track && current != nil {
		player.CurrentVolume = volume
		current.SetVolume(m.output(player, volume))
		if !current.IsPlaying() {
			_ = current.Rewind()
			current.Play()
		}
		return
	}

	player.PendingTrack = track
	player.PendingVolume = volume
	player.PendingActive = true
	if current == nil {
		m.switchToPending(player)
		return
	}

	player.FadeStep = player.CurrentVolume / float64(fadeFrames)
	if player.FadeStep <= 0 {
		player.FadeStep = 1
	}
}

func (m *MusicSystem) updateTransition(player *component.MusicPlayer) {
	current := m.currentPlayer(player)
	if current == nil {
		m.switchToPending(player)
		return
	}

	player.CurrentVolume -= player.FadeStep
	if player.CurrentVolume > 0 {
		current.SetVolume(m.output(player, player.CurrentVolume))
		return
	}

	player.CurrentVolume = 0
	current.SetVolume(0)
	current.Pause()
	_ = current.Rewind()
	player.CurrentTrack = ""
	m.switchToPending(player)
}

func (m *MusicSystem) switchToPending(player *component.MusicPlayer) {
	if !player.PendingActive {
		return
	}

	track := strings.TrimSpace(player.PendingTrack)
	volume := player.PendingVolume

	player.PendingTrack = ""
	player.PendingVolume = 0
	player.PendingActive = false
	player.FadeStep = 0

	if track == "" {
		player.CurrentTrack = ""
		player.CurrentVolume = 0
		return
	}

	p, err := m.playerForTrack(player, track)
	if err != nil {
		m.logger.Warn("music: load failed", zap.String("track", track), zap.Error(err))
		player.CurrentTrack = ""
		player.CurrentVolume = 0
		return
	}

	player.CurrentTrack = track
	player.CurrentVolume = volume
	if err := p.Rewind(); err != nil {
		m.logger.Warn("music: rewind failed", zap.String("track", track), zap.Error(err))
	}
	p.SetVolume(m.output(player, volume))
	p.Play()
}

func (m *MusicSystem) output(player *component.MusicPlayer, volume float64) float64 {
	if player.Muted {
		return 0
	}
	return volume * player.Master
}

func (m *MusicSystem) currentPlayer(player *component.MusicPlayer) component.TrackPlayer {
	if strings.TrimSpace(player.CurrentTrack) == "" {
		return nil
	}
	p, ok := player.Players[player.CurrentTrack]
	if !ok || p == nil {
		return nil
	}
	return p
}

func (m *MusicSystem) playerForTrack(player *component.MusicPlayer, track string) (component.TrackPlayer, error) {
	if existing, ok := player.Players[track]; ok && existing != nil {
		return existing, nil
	}
	if m.load == nil {
		return nil, errNoLoader
	}
	p, err := m.load(track)
	if err != nil {
		return nil, err
	}
	player.Players[track] = p
	return p, nil
}
