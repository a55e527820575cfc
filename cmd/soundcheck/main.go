// Command soundcheck auditions the synthesized audio: each scene's ambient
// drone and the interface effects. Keys 1-9 pick a scene track, F1-F4 fire
// the effects, Space stops the drone.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/neonfolio/assets"
	"github.com/milk9111/neonfolio/logging"
	"github.com/milk9111/neonfolio/prefabs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	trackKeys  = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9}
	effectKeys = []ebiten.Key{ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4}
	effects    = []assets.Effect{assets.EffectClick, assets.EffectLevelUp, assets.EffectAchievement, assets.EffectTransmit}
)

type soundGame struct {
	scenes  []prefabs.SceneSpec
	tracks  map[string]*audio.Player
	current string
	logger  *zap.Logger
}

func (g *soundGame) Update() error {
	for i, k := range trackKeys {
		if i < len(g.scenes) && inpututil.IsKeyJustPressed(k) {
			g.play(g.scenes[i])
		}
	}
	for i, k := range effectKeys {
		if inpututil.IsKeyJustPressed(k) {
			p, err := assets.NewEffectPlayer(effects[i])
			if err != nil {
				g.logger.Warn("effect failed", zap.Stringer("effect", effects[i]), zap.Error(err))
				continue
			}
			p.Play()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.stop()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *soundGame) play(sc prefabs.SceneSpec) {
	g.stop()
	p, ok := g.tracks[sc.ID]
	if !ok {
		var err error
		p, err = assets.NewTrackPlayer(assets.TrackFromSpec(sc.Ambient))
		if err != nil {
			g.logger.Warn("track failed", zap.String("scene", sc.ID), zap.Error(err))
			return
		}
		g.tracks[sc.ID] = p
	}
	_ = p.Rewind()
	p.Play()
	g.current = sc.ID
}

func (g *soundGame) stop() {
	if p, ok := g.tracks[g.current]; ok {
		p.Pause()
	}
	g.current = ""
}

func (g *soundGame) Draw(screen *ebiten.Image) {
	var b strings.Builder
	for i, sc := range g.scenes {
		mark := " "
		if sc.ID == g.current {
			mark = ">"
		}
		t := assets.TrackFromSpec(sc.Ambient)
		fmt.Fprintf(&b, "%s %d  %-10s root %.1fHz pulse %.2fHz vol %.2f\n", mark, i+1, sc.ID, t.Root, t.Pulse, t.Volume)
	}
	b.WriteString("\n")
	for i, e := range effects {
		fmt.Fprintf(&b, "  F%d %s\n", i+1, e)
	}
	b.WriteString("\nspace stops, esc quits")
	ebitenutil.DebugPrint(screen, b.String())
}

func (g *soundGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 512, 320
}

func main() {
	var prefabsDir string
	cmd := &cobra.Command{
		Use:          "soundcheck",
		Short:        "Audition ambient tracks and interface sounds",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("", false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			prefabs.SetDiskRoot(prefabsDir)
			spec, err := prefabs.LoadScenes()
			if err != nil {
				return err
			}
			g := &soundGame{scenes: spec.Scenes, tracks: map[string]*audio.Player{}, logger: logger}
			ebiten.SetWindowSize(512, 320)
			ebiten.SetWindowTitle("soundcheck")
			if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefabsDir, "prefabs-dir", "prefabs", "directory checked for prefab overrides")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
