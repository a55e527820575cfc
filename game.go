package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/neonfolio/assets"
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/config"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/ecs/system"
	"github.com/milk9111/neonfolio/prefabs"
	"github.com/milk9111/neonfolio/stage"
	"go.uber.org/zap"
)

var sceneKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9}

type Game struct {
	logger *zap.Logger

	stage     *stage.Stage
	hud       *HUD
	shader    *ebiten.Shader
	offscreen *ebiten.Image
	watcher   *prefabs.Watcher

	quit bool
}

func NewGame(cfg config.Config, logger *zap.Logger) (*Game, error) {
	spec, err := prefabs.LoadScenes()
	if err != nil {
		return nil, err
	}

	st, err := stage.New(stage.Options{
		Scenes:     spec.Scenes,
		StartScene: cfg.StartScene,
		Seed:       cfg.Seed,
		Volume:     cfg.Volume,
		Muted:      cfg.Mute,
		Glitch:     cfg.Glitch,
		Tracks:     loadTrack,
		Sounds:     loadSounds(logger),
		Input:      system.NewInputSystem(logger.Named("input")),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		logger:    logger,
		stage:     st,
		offscreen: ebiten.NewImage(common.BaseWidth, common.BaseHeight),
	}

	if cfg.Glitch {
		if g.shader, err = loadGlitchShader(); err != nil {
			logger.Warn("screen effect disabled", zap.Error(err))
		}
	}

	if cfg.Debug && cfg.PrefabsDir != "" {
		w, err := prefabs.NewWatcher(cfg.PrefabsDir, filepath.Join(cfg.PrefabsDir, "scripts"))
		if err != nil {
			logger.Warn("hot reload disabled", zap.String("dir", cfg.PrefabsDir), zap.Error(err))
		} else {
			g.watcher = w
		}
	}

	st.Start()
	g.hud = NewHUD(st)
	return g, nil
}

func loadTrack(spec prefabs.TrackSpec) (component.TrackPlayer, error) {
	p, err := assets.NewTrackPlayer(assets.TrackFromSpec(spec))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// loadSounds renders the interface sounds. A sound that fails to render is
// left out and simply never plays.
func loadSounds(logger *zap.Logger) map[string]component.TrackPlayer {
	out := make(map[string]component.TrackPlayer)
	for _, e := range []assets.Effect{assets.EffectClick, assets.EffectLevelUp, assets.EffectAchievement, assets.EffectTransmit} {
		p, err := assets.NewEffectPlayer(e)
		if err != nil {
			logger.Warn("sound unavailable", zap.Stringer("sound", e), zap.Error(err))
			continue
		}
		out[e.String()] = p
	}
	return out
}

func (g *Game) Update() error {
	if g.quit || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.quit = true
		return ebiten.Termination
	}

	g.pollReload()

	if !g.stage.CapturesKeys() {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.stage.Continue()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyM) {
			g.stage.SetMuted(!g.stage.Muted())
			g.logger.Info("audio toggled", zap.Bool("muted", g.stage.Muted()))
		}
		for i, k := range sceneKeys {
			if inpututil.IsKeyJustPressed(k) {
				g.stage.Select(i)
			}
		}
	}

	g.hud.Update()
	g.stage.Update(time.Second / common.TPS)
	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for _, c := range g.watcher.Poll() {
		switch c.Kind {
		case prefabs.ChangeSpec:
			spec, err := prefabs.LoadScenes()
			if err == nil {
				err = g.stage.ReloadScenes(spec)
			}
			if err != nil {
				g.logger.Warn("scene reload failed", zap.String("path", c.Path), zap.Error(err))
				continue
			}
			g.logger.Info("scenes reloaded", zap.String("path", c.Path))
		case prefabs.ChangeScript:
			n := g.stage.ReloadScript(filepath.Base(c.Path))
			g.logger.Info("script reloaded", zap.String("path", c.Path), zap.Int("scenes", n))
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	bg := prefabs.ColorOr(g.stage.Active().Background, color.NRGBA{A: 0xff})
	g.offscreen.Fill(bg)
	g.stage.World().Draw(g.offscreen)

	t, intensity, ok := system.GlitchState(g.stage.World())
	if g.shader != nil && ok {
		op := &ebiten.DrawRectShaderOptions{}
		op.Images[0] = g.offscreen
		op.Uniforms = map[string]any{
			"Time":   float32(t),
			"Glitch": float32(intensity),
		}
		screen.DrawRectShader(common.BaseWidth, common.BaseHeight, g.shader, op)
	} else {
		screen.DrawImage(g.offscreen, nil)
	}

	g.hud.Draw(screen, !g.stage.CapturesKeys())
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close releases the watcher and ends the session.
func (g *Game) Close() error {
	g.stage.Close()
	if g.watcher == nil {
		return nil
	}
	if err := g.watcher.Close(); err != nil {
		return fmt.Errorf("game: close watcher: %w", err)
	}
	return nil
}
