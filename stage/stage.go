// Package stage binds the session to the presentation world. Each scene's
// OnEnter builds its entities, starts its intro camera move and ambient track
// and runs its script; OnExit tears all of that down again.
package stage

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/neonfolio/camera"
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/ecs/entity"
	"github.com/milk9111/neonfolio/ecs/system"
	"github.com/milk9111/neonfolio/logging"
	"github.com/milk9111/neonfolio/prefabs"
	"github.com/milk9111/neonfolio/scene"
	"github.com/milk9111/neonfolio/script"
	"github.com/milk9111/neonfolio/session"
	"go.uber.org/zap"
)

const (
	SoundLevelUp     = "levelup"
	SoundAchievement = "achievement"

	// glitchFloor is the resting intensity of the screen effect.
	glitchFloor = 0.04
)

var ErrSceneMismatch = errors.New("stage: reloaded scenes do not match the running sequence")

// TrackFactory creates a player for an ambient track spec.
type TrackFactory func(spec prefabs.TrackSpec) (component.TrackPlayer, error)

type Options struct {
	Scenes []prefabs.SceneSpec
	// StartScene is the id of the first scene; empty starts at the first.
	StartScene string
	Seed       uint64
	Volume     float64
	Muted      bool
	Glitch     bool

	Tracks TrackFactory
	// Sounds maps one-shot sound names to their players.
	Sounds map[string]component.TrackPlayer
	// Input, when set, runs first in the update order. Tests leave it nil
	// and write the input component directly.
	Input  ecs.System
	Logger *zap.Logger
}

type navKind int

const (
	navNone navKind = iota
	navAdvance
	navSelect
)

type navRequest struct {
	kind  navKind
	index int
}

// Stage is not safe for concurrent use; everything runs on the game loop.
type Stage struct {
	sess     *session.Session
	world    *ecs.World
	scenes   []prefabs.SceneSpec
	runtimes []*script.Runtime
	host     *host
	cameras  *system.CameraSystem
	audio    *system.AudioSystem
	input    ecs.Entity
	logger   *zap.Logger

	start   string
	mounted int
	nav     navRequest
	started bool
	muted   bool
	// settle drops the next frame's input edges so the key that changed
	// the scene does not also reach the new one.
	settle bool
}

func New(opts Options) (*Stage, error) {
	if len(opts.Scenes) == 0 {
		return nil, fmt.Errorf("stage: %w", scene.ErrNoScenes)
	}
	logger := logging.OrNop(opts.Logger)

	st := &Stage{
		world:   ecs.NewWorld(),
		scenes:  append([]prefabs.SceneSpec(nil), opts.Scenes...),
		start:   opts.StartScene,
		mounted: -1,
		muted:   opts.Muted,
		logger:  logger,
	}
	st.host = &host{st: st}

	descriptors := make([]scene.Descriptor, len(st.scenes))
	for i, sc := range st.scenes {
		descriptors[i] = scene.Descriptor{
			ID:      sc.ID,
			Name:    sc.Name,
			OnEnter: func() { st.mount(i) },
			OnExit:  func() { st.unmount(i) },
		}
	}
	sess, err := session.New(session.Options{
		Scenes:      descriptors,
		CameraStart: cameraStart(st.scenes[0]),
		Seed:        opts.Seed,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	st.sess = sess
	st.logger = sess.Logger().Named("stage")

	if err := st.buildWorld(opts); err != nil {
		sess.Close()
		return nil, err
	}

	st.runtimes = make([]*script.Runtime, len(st.scenes))
	for i, sc := range st.scenes {
		st.runtimes[i] = st.loadScript(sc)
	}
	return st, nil
}

func (st *Stage) buildWorld(opts Options) error {
	w := st.world
	if _, err := entity.NewCamera(w, cameraStart(st.scenes[0])); err != nil {
		return err
	}
	in, err := entity.NewInput(w)
	if err != nil {
		return err
	}
	st.input = in
	if _, err := entity.NewMusicPlayer(w, common.Clamp(opts.Volume, 0, 1), opts.Muted); err != nil {
		return err
	}
	if len(opts.Sounds) > 0 {
		names := make([]string, 0, len(opts.Sounds))
		players := make([]component.TrackPlayer, 0, len(opts.Sounds))
		for name, p := range opts.Sounds {
			names = append(names, name)
			players = append(players, p)
		}
		if _, err := entity.NewSoundBank(w, names, players, 1); err != nil {
			return err
		}
	}
	floor := 0.0
	if opts.Glitch {
		floor = glitchFloor
	}
	if _, err := entity.NewGlitch(w, floor); err != nil {
		return err
	}

	st.cameras = system.NewCameraSystem(st.sess.Camera)
	st.audio = system.NewAudioSystem(opts.Muted)

	w.AddSystem(opts.Input)
	w.AddSystem(&inputGate{st: st})
	w.AddSystem(st.cameras)
	w.AddSystem(system.NewMotionSystem())
	w.AddSystem(system.NewInteractSystem())
	w.AddSystem(system.NewTerminalSystem())
	w.AddSystem(&dispatchSystem{st: st})
	w.AddSystem(system.NewTTLSystem())
	w.AddSystem(system.NewGlitchSystem())
	w.AddSystem(system.NewMusicSystem(st.trackLoader(opts.Tracks), st.logger.Named("music")))
	w.AddSystem(st.audio)
	w.AddSystem(system.NewRenderSystem())
	return nil
}

func (st *Stage) loadScript(sc prefabs.SceneSpec) *script.Runtime {
	if sc.Script == "" {
		return nil
	}
	rt, err := script.Load(sc.Script, st.logger)
	if err != nil {
		st.logger.Warn("scene script unavailable", zap.String("scene", sc.ID), zap.Error(err))
		return nil
	}
	return rt
}

// trackLoader resolves a track name against the ambient specs of every scene.
func (st *Stage) trackLoader(factory TrackFactory) system.TrackLoader {
	return func(track string) (component.TrackPlayer, error) {
		if factory == nil {
			return nil, fmt.Errorf("stage: no track factory for %q", track)
		}
		for _, sc := range st.scenes {
			if trackName(sc) == track {
				return factory(sc.Ambient)
			}
		}
		return nil, fmt.Errorf("stage: unknown track %q", track)
	}
}

// Start enters the configured first scene. An unknown start id falls back to
// the first scene.
func (st *Stage) Start() {
	if st.started {
		return
	}
	st.started = true
	if st.start != "" {
		if i := st.sess.Scenes.IndexOf(st.start); i >= 0 {
			st.sess.Scenes.Select(i)
			st.applyNav()
			return
		}
		st.logger.Warn("unknown start scene", zap.String("scene", st.start))
	}
	st.sess.Scenes.Start()
	st.applyNav()
}

// Update advances one frame: session clock first, then the world, then any
// navigation a script asked for during the frame.
func (st *Stage) Update(dt time.Duration) {
	st.sess.Update(dt)
	st.world.Update()
	st.applyNav()
}

// Continue runs the active scene's continue hook. A hook that fails without
// asking for a scene change still advances.
func (st *Stage) Continue() {
	err := st.runHook(func(rt *script.Runtime) error { return rt.Continue(st.host) }, "continue")
	if err != nil && st.nav.kind == navNone {
		st.host.Advance()
	}
	st.applyNav()
}

// Select jumps straight to a scene. Out-of-range indexes are ignored.
func (st *Stage) Select(index int) bool {
	if !st.host.Select(index) {
		return false
	}
	st.applyNav()
	return true
}

func (st *Stage) Session() *session.Session { return st.sess }
func (st *Stage) World() *ecs.World         { return st.world }

func (st *Stage) Snapshot() session.Snapshot { return st.sess.Snapshot() }

// Active returns the spec of the active scene.
func (st *Stage) Active() prefabs.SceneSpec {
	return st.scenes[st.sess.Scenes.Index()]
}

// Scenes returns the scene specs in sequence order.
func (st *Stage) Scenes() []prefabs.SceneSpec {
	return append([]prefabs.SceneSpec(nil), st.scenes...)
}

// CapturesKeys reports whether a text field on screen owns the keyboard.
func (st *Stage) CapturesKeys() bool {
	return ecs.Count(st.world, component.TerminalComponent.Kind()) > 0
}

// Input exposes the input component for callers driving the stage without
// the ebiten input system.
func (st *Stage) Input() *component.Input {
	in, _ := ecs.Get(st.world, st.input, component.InputComponent.Kind())
	return in
}

// SetMuted silences or restores both the ambient track and the interface
// sounds.
func (st *Stage) SetMuted(muted bool) {
	st.muted = muted
	system.SetMuted(st.world, muted)
	st.audio.SetMuted(muted)
}

func (st *Stage) Muted() bool { return st.muted }

// Close stops the music and ends the session.
func (st *Stage) Close() {
	system.StopMusic(st.world)
	st.sess.Close()
}

// ReloadScenes swaps in edited scene specs and rebuilds the active scene's
// entities. Hooks are not rerun. The sequence itself cannot change shape.
func (st *Stage) ReloadScenes(spec prefabs.ScenesSpec) error {
	if len(spec.Scenes) != len(st.scenes) {
		return ErrSceneMismatch
	}
	for i, sc := range spec.Scenes {
		if sc.ID != st.scenes[i].ID {
			return ErrSceneMismatch
		}
	}
	for i, sc := range spec.Scenes {
		if sc.Ambient != st.scenes[i].Ambient {
			system.ForgetTrack(st.world, trackName(st.scenes[i]))
		}
	}
	st.scenes = append([]prefabs.SceneSpec(nil), spec.Scenes...)
	if st.mounted < 0 {
		return nil
	}
	sc := st.scenes[st.mounted]
	entity.DestroyScene(st.world, sc.ID)
	if _, err := entity.BuildScene(st.world, sc); err != nil {
		return fmt.Errorf("stage: rebuild %s: %w", sc.ID, err)
	}
	st.cameras.SetFOV(sc.Camera.FOV)
	system.RequestMusic(st.world, trackName(sc), sc.Ambient.Volume)
	return nil
}

// ReloadScript recompiles every scene using the named script. Script state
// starts over.
func (st *Stage) ReloadScript(name string) int {
	n := 0
	for i, sc := range st.scenes {
		if sc.Script != name {
			continue
		}
		st.runtimes[i] = st.loadScript(sc)
		n++
	}
	return n
}

func (st *Stage) mount(i int) {
	sc := st.scenes[i]
	st.mounted = i
	st.settle = true

	if _, err := entity.BuildScene(st.world, sc); err != nil {
		st.logger.Warn("scene build failed", zap.String("scene", sc.ID), zap.Error(err))
	}

	cam := st.sess.Camera
	if len(sc.Camera.Start) > 0 {
		cam.Jump(common.V3From(sc.Camera.Start))
	}
	if len(sc.Camera.Position) > 0 {
		pos := common.V3From(sc.Camera.Position)
		t := camera.Transition{Position: &pos, Duration: seconds(sc.Camera.Duration)}
		if len(sc.Camera.LookAt) > 0 {
			look := common.V3From(sc.Camera.LookAt)
			t.LookAt = &look
		}
		cam.Request(t)
	} else {
		cam.ClearLookAt()
	}
	st.cameras.SetFOV(sc.Camera.FOV)

	system.RequestMusic(st.world, trackName(sc), sc.Ambient.Volume)

	if err := st.runtimes[i].Enter(st.host); err != nil {
		st.logger.Warn("scene hook failed", zap.String("scene", sc.ID), zap.String("hook", "enter"), zap.Error(err))
	}
}

func (st *Stage) unmount(i int) {
	sc := st.scenes[i]
	if err := st.runtimes[i].Exit(st.host); err != nil {
		st.logger.Warn("scene hook failed", zap.String("scene", sc.ID), zap.String("hook", "exit"), zap.Error(err))
	}
	removed := entity.DestroyScene(st.world, sc.ID)
	st.logger.Debug("scene unmounted", zap.String("scene", sc.ID), zap.Int("entities", removed))
	st.mounted = -1
}

func (st *Stage) runHook(fn func(rt *script.Runtime) error, hook string) error {
	if st.mounted < 0 {
		return nil
	}
	err := fn(st.runtimes[st.mounted])
	if err != nil {
		st.logger.Warn("scene hook failed",
			zap.String("scene", st.scenes[st.mounted].ID),
			zap.String("hook", hook),
			zap.Error(err))
	}
	return err
}

// applyNav performs the navigation queued by hooks. A hook run by the
// transition may queue another; the chain is cut after one lap.
func (st *Stage) applyNav() {
	for range len(st.scenes) + 1 {
		req := st.nav
		st.nav = navRequest{}
		switch req.kind {
		case navAdvance:
			st.sess.Scenes.Advance()
		case navSelect:
			st.sess.Scenes.Select(req.index)
		default:
			return
		}
	}
	if st.nav.kind != navNone {
		st.logger.Warn("dropping scene change loop", zap.Int("scene", st.sess.Scenes.Index()))
		st.nav = navRequest{}
	}
}

// dispatchSystem hands this frame's interact and submit events to the
// active scene's script. It runs before the world drops undrained events.
type dispatchSystem struct {
	st *Stage
}

func (d *dispatchSystem) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		switch evt.Type {
		case ecs.EventInteract:
			item, _ := evt.Data.(string)
			d.st.runHook(func(rt *script.Runtime) error { return rt.Interact(d.st.host, item) }, "interact")
		case ecs.EventSubmit:
			sub, _ := evt.Data.(system.Submission)
			d.st.logger.Info("message transmitted", zap.String("from", sub.Name))
			d.st.runHook(func(rt *script.Runtime) error { return rt.Submit(d.st.host, sub.Message) }, "submit")
		}
	}
}

// inputGate runs right after the input system and empties the input edges
// of the first frame after a scene was mounted. The pointer position stays.
type inputGate struct {
	st *Stage
}

func (g *inputGate) Update(w *ecs.World) {
	if !g.st.settle {
		return
	}
	g.st.settle = false
	in := g.st.Input()
	if in == nil {
		return
	}
	in.Click = false
	in.Chars = nil
	in.Paste = ""
	in.Backspace = false
	in.Tab = false
	in.Enter = false
}

func cameraStart(sc prefabs.SceneSpec) common.Vec3 {
	if len(sc.Camera.Start) > 0 {
		return common.V3From(sc.Camera.Start)
	}
	return common.V3From(sc.Camera.Position)
}

func trackName(sc prefabs.SceneSpec) string {
	if sc.Ambient.Name != "" {
		return sc.Ambient.Name
	}
	return sc.ID
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
