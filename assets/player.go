package assets

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	audioOnce    sync.Once
	audioContext *audio.Context

	pcmMu    sync.Mutex
	pcmCache = map[string][]byte{}
)

// Context returns the shared audio context, creating it on first use.
func Context() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.CurrentContext()
		if audioContext == nil {
			audioContext = audio.NewContext(int(SampleRate))
		}
	})
	return audioContext
}

// NewTrackPlayer renders t once and returns a player that loops it forever.
func NewTrackPlayer(t Track) (*audio.Player, error) {
	t = t.normalized()
	pcm := cachedPCM(trackKey(t), func() []byte {
		return RenderPCM(NewDrone(t, SampleRate), 0)
	})
	if len(pcm) == 0 {
		return nil, fmt.Errorf("assets: track %q rendered no samples", t.Name)
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	p, err := Context().NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("assets: track %q: %w", t.Name, err)
	}
	p.SetVolume(t.Volume)
	return p, nil
}

func NewEffectPlayer(e Effect) (*audio.Player, error) {
	pcm := cachedPCM("effect:"+e.String(), func() []byte {
		return RenderPCM(NewEffect(e, SampleRate), 0)
	})
	if len(pcm) == 0 {
		return nil, fmt.Errorf("assets: effect %s rendered no samples", e)
	}
	return Context().NewPlayerFromBytes(pcm), nil
}

// trackKey names a rendered track by everything that shapes its samples, so an
// edited track renders again under the same name.
func trackKey(t Track) string {
	return fmt.Sprintf("track:%s:%g:%g:%g:%d", t.Name, t.Root, t.Pulse, t.Shimmer, t.Length)
}

func cachedPCM(key string, render func() []byte) []byte {
	pcmMu.Lock()
	defer pcmMu.Unlock()
	if b, ok := pcmCache[key]; ok {
		return b
	}
	b := render()
	pcmCache[key] = b
	return b
}
