package stage

import (
	"testing"
	"time"

	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/ecs/system"
	"github.com/milk9111/neonfolio/notify"
	"github.com/milk9111/neonfolio/prefabs"
	"github.com/milk9111/neonfolio/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / common.TPS

type fakePlayer struct {
	playing bool
	volume  float64
	plays   int
}

func (p *fakePlayer) IsPlaying() bool          { return p.playing }
func (p *fakePlayer) Play()                    { p.playing = true; p.plays++ }
func (p *fakePlayer) Pause()                   { p.playing = false }
func (p *fakePlayer) Rewind() error            { return nil }
func (p *fakePlayer) SetVolume(volume float64) { p.volume = volume }

type fixture struct {
	st     *Stage
	tracks map[string]*fakePlayer
	sounds map[string]*fakePlayer
}

func newFixture(t *testing.T, start string) *fixture {
	t.Helper()
	prefabs.SetDiskRoot("")
	t.Cleanup(func() { prefabs.SetDiskRoot("prefabs") })

	spec, err := prefabs.LoadScenes()
	require.NoError(t, err)

	f := &fixture{
		tracks: map[string]*fakePlayer{},
		sounds: map[string]*fakePlayer{},
	}
	sounds := map[string]component.TrackPlayer{}
	for _, name := range []string{system.SoundClick, system.SoundTransmit, SoundLevelUp, SoundAchievement} {
		p := &fakePlayer{}
		f.sounds[name] = p
		sounds[name] = p
	}

	st, err := New(Options{
		Scenes:     spec.Scenes,
		StartScene: start,
		Seed:       42,
		Volume:     0.5,
		Glitch:     true,
		Sounds:     sounds,
		Tracks: func(ts prefabs.TrackSpec) (component.TrackPlayer, error) {
			p := &fakePlayer{}
			f.tracks[ts.Name] = p
			return p, nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(st.Close)
	f.st = st
	st.Start()
	return f
}

func (f *fixture) sceneEntities(id string) int {
	n := 0
	ecs.ForEach(f.st.World(), component.SceneMemberComponent.Kind(), func(_ ecs.Entity, m *component.SceneMember) {
		if m.Scene == id {
			n++
		}
	})
	return n
}

func TestNewRejectsEmptySequence(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestStartMountsFirstScene(t *testing.T) {
	f := newFixture(t, "")

	snap := f.st.Snapshot()
	assert.Equal(t, "dock", snap.SceneID)
	assert.Equal(t, 0, snap.SceneIndex)
	assert.Equal(t, 5, snap.SceneCount)
	assert.Equal(t, 3, f.sceneEntities("dock"))
	assert.True(t, f.st.Session().Camera.Busy())
	assert.Equal(t, common.V3(0, 0, 16), snap.Camera.Position)

	f.st.Update(frame)
	require.Contains(t, f.tracks, "dock")
	assert.True(t, f.tracks["dock"].playing)
	assert.InDelta(t, 0.3*0.5, f.tracks["dock"].volume, 1e-9)

	// The intro move lands after its duration.
	for i := 0; i < 3*common.TPS; i++ {
		f.st.Update(frame)
	}
	pose := f.st.Snapshot().Camera
	assert.Equal(t, common.V3(0, 0, 10), pose.Position)
	assert.True(t, pose.Tracking)
}

func TestStartSceneOption(t *testing.T) {
	assert.Equal(t, "projects", newFixture(t, "projects").st.Snapshot().SceneID)
	assert.Equal(t, "dock", newFixture(t, "nowhere").st.Snapshot().SceneID)
}

func TestContinueFromDock(t *testing.T) {
	f := newFixture(t, "")

	f.st.Continue()

	snap := f.st.Snapshot()
	assert.Equal(t, "city", snap.SceneID)
	// +10 for leaving the dock, +15 for entering the city.
	assert.Equal(t, 25, snap.Experience)
	require.Len(t, snap.Achievements, 1)
	assert.Equal(t, "city_explorer", snap.Achievements[0].ID)
	assert.Zero(t, f.sceneEntities("dock"))
	assert.Equal(t, 24, f.sceneEntities("city"))
	assert.Equal(t, 1, f.st.Session().Notifications.Count(notify.KindAchievement))

	f.st.Update(frame)
	assert.Equal(t, 1, f.sounds[SoundAchievement].plays)
}

func TestSelectActiveSceneDoesNotReenter(t *testing.T) {
	f := newFixture(t, "")

	require.True(t, f.st.Select(1))
	require.True(t, f.st.Select(1))
	assert.Equal(t, 15, f.st.Snapshot().Experience)
	assert.Equal(t, 24, f.sceneEntities("city"))

	require.True(t, f.st.Select(0))
	require.True(t, f.st.Select(1))
	assert.Equal(t, 30, f.st.Snapshot().Experience)
	assert.Len(t, f.st.Snapshot().Achievements, 1)

	assert.False(t, f.st.Select(5))
	assert.False(t, f.st.Select(-1))
	assert.Equal(t, "city", f.st.Snapshot().SceneID)
}

func TestContinueWrapsToFirstScene(t *testing.T) {
	f := newFixture(t, "contact")
	require.True(t, f.st.CapturesKeys())

	f.st.Continue()
	assert.Equal(t, "dock", f.st.Snapshot().SceneID)
	assert.False(t, f.st.CapturesKeys())
	assert.Zero(t, f.sceneEntities("contact"))
}

func TestInteractEventReachesScript(t *testing.T) {
	f := newFixture(t, "skills")

	f.st.World().Events().Push(ecs.Event{Type: ecs.EventInteract, Data: "React"})
	f.st.Update(frame)

	snap := f.st.Snapshot()
	assert.Equal(t, 5, snap.Experience)
	var popups []notify.Notification
	for _, n := range snap.Notifications {
		if n.Kind == notify.KindXP {
			popups = append(popups, n)
		}
	}
	require.Len(t, popups, 1)
	assert.Equal(t, 5, popups[0].Amount)
	assert.Equal(t, "React", popups[0].Label)
	assert.Equal(t, 2000*time.Millisecond, popups[0].ExpiresAt-popups[0].CreatedAt)
	assert.Zero(t, f.st.World().Events().Len())
}

func TestClickOnPedestal(t *testing.T) {
	f := newFixture(t, "skills")
	// Let the intro move finish so projections are stable.
	for i := 0; i < 4*common.TPS; i++ {
		f.st.Update(frame)
	}

	var target *component.Interactable
	ecs.ForEach(f.st.World(), component.InteractableComponent.Kind(), func(_ ecs.Entity, in *component.Interactable) {
		if target == nil && in.Visible {
			target = in
		}
	})
	require.NotNil(t, target)

	in := f.st.Input()
	in.PointerX, in.PointerY = target.ScreenX, target.ScreenY
	in.Click = true
	f.st.Update(frame)

	assert.Equal(t, 5, f.st.Snapshot().Experience)
	assert.Equal(t, 1, f.sounds[system.SoundClick].plays)
}

func TestSubmitCompletesMission(t *testing.T) {
	f := newFixture(t, "contact")

	f.st.World().Events().Push(ecs.Event{
		Type: ecs.EventSubmit,
		Data: system.Submission{Name: "Ada", Email: "ada@x.io", Message: "hi"},
	})
	f.st.Update(frame)

	snap := f.st.Snapshot()
	assert.Equal(t, 25, snap.Experience)
	assert.True(t, f.st.Session().Progression.Unlocked("mission_complete"))
	assert.Equal(t, 1, f.st.Session().Notifications.Count(notify.KindBanner))
	assert.True(t, f.st.Session().Camera.Busy())
}

func TestLevelUpKicksEffects(t *testing.T) {
	f := newFixture(t, "")

	f.st.host.AddExperience(100)
	_, intensity, ok := system.GlitchState(f.st.World())
	require.True(t, ok)
	assert.InDelta(t, 1, intensity, 1e-9)

	f.st.Update(frame)
	assert.Equal(t, 2, f.st.Snapshot().Level)
	assert.Equal(t, 1, f.sounds[SoundLevelUp].plays)
	assert.Equal(t, 1, f.st.Session().Notifications.Count(notify.KindLevelUp))

	// No level crossed, no effects.
	f.st.host.AddExperience(10)
	f.st.Update(frame)
	assert.Equal(t, 1, f.sounds[SoundLevelUp].plays)
}

func TestUnlockTwicePlaysOnce(t *testing.T) {
	f := newFixture(t, "")

	f.st.host.UnlockAchievement("a", "A")
	f.st.host.UnlockAchievement("a", "A")
	f.st.Update(frame)
	assert.Equal(t, 1, f.sounds[SoundAchievement].plays)
	assert.Len(t, f.st.Snapshot().Achievements, 1)
}

func TestAdvanceLoopIsCut(t *testing.T) {
	f := newFixture(t, "")

	loop, err := script.Compile("loop", []byte(`on_enter = func(engine) { engine.advance() }`), nil)
	require.NoError(t, err)
	for i := range f.st.runtimes {
		f.st.runtimes[i] = loop
	}

	require.True(t, f.st.Select(1))
	assert.NotEqual(t, -1, f.st.mounted)
	assert.Equal(t, navNone, f.st.nav.kind)
}

func TestReloadScenes(t *testing.T) {
	f := newFixture(t, "city")

	spec := prefabs.ScenesSpec{Scenes: f.st.Scenes()}
	spec.Scenes[1].Entities = spec.Scenes[1].Entities[:1]
	require.NoError(t, f.st.ReloadScenes(spec))
	assert.Equal(t, 1, f.sceneEntities("city"))

	assert.ErrorIs(t, f.st.ReloadScenes(prefabs.ScenesSpec{Scenes: spec.Scenes[:2]}), ErrSceneMismatch)
}

func TestReloadScript(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, 1, f.st.ReloadScript("dock.tengo"))
	assert.Zero(t, f.st.ReloadScript("missing.tengo"))

	f.st.Continue()
	assert.Equal(t, "city", f.st.Snapshot().SceneID)
}

func TestSceneChangeDropsTriggeringKey(t *testing.T) {
	f := newFixture(t, "projects")
	f.st.Update(frame)

	in := f.st.Input()
	in.Enter = true
	in.Chars = []rune{' '}
	f.st.Continue()
	require.Equal(t, "contact", f.st.Snapshot().SceneID)
	f.st.Update(frame)

	termEnt, ok := ecs.First(f.st.World(), component.TerminalComponent.Kind())
	require.True(t, ok)
	term, _ := ecs.Get(f.st.World(), termEnt, component.TerminalComponent.Kind())
	assert.Zero(t, term.Focus)
	assert.Empty(t, term.Fields[0].Value)

	in.Chars = []rune("A")
	f.st.Update(frame)
	assert.Equal(t, "A", term.Fields[0].Value)
}

func TestFailingContinueStillAdvances(t *testing.T) {
	f := newFixture(t, "")

	broken, err := script.Compile("broken", []byte(`on_continue = func(engine) { engine.missing() }`), nil)
	require.NoError(t, err)
	f.st.runtimes[0] = broken
	f.st.Continue()
	assert.Equal(t, "city", f.st.Snapshot().SceneID)

	// A scene change asked for before the failure wins over the fallback.
	partial, err := script.Compile("partial", []byte(`on_continue = func(engine) { engine.select(3); engine.missing() }`), nil)
	require.NoError(t, err)
	f.st.runtimes[1] = partial
	f.st.Continue()
	assert.Equal(t, "projects", f.st.Snapshot().SceneID)
}

func TestSetMutedSilencesMusicAndSounds(t *testing.T) {
	f := newFixture(t, "")
	f.st.Update(frame)
	dock := f.tracks["dock"]
	require.NotNil(t, dock)

	f.st.SetMuted(true)
	assert.True(t, f.st.Muted())
	assert.Zero(t, dock.volume)

	f.st.host.UnlockAchievement("a", "A")
	f.st.Update(frame)
	assert.Zero(t, f.sounds[SoundAchievement].plays)

	f.st.SetMuted(false)
	assert.InDelta(t, 0.3*0.5, dock.volume, 1e-9)
	f.st.host.UnlockAchievement("b", "B")
	f.st.Update(frame)
	assert.Equal(t, 1, f.sounds[SoundAchievement].plays)
}

func TestReloadScenesRebuildsEditedTrack(t *testing.T) {
	f := newFixture(t, "")
	f.st.Update(frame)
	old := f.tracks["dock"]
	require.NotNil(t, old)

	spec := prefabs.ScenesSpec{Scenes: f.st.Scenes()}
	spec.Scenes[0].Ambient.Root = 110
	require.NoError(t, f.st.ReloadScenes(spec))
	f.st.Update(frame)

	assert.False(t, old.playing)
	require.NotSame(t, old, f.tracks["dock"])
	assert.True(t, f.tracks["dock"].playing)

	// An unchanged track keeps its player.
	kept := f.tracks["dock"]
	require.NoError(t, f.st.ReloadScenes(spec))
	f.st.Update(frame)
	assert.Same(t, kept, f.tracks["dock"])
	assert.True(t, kept.playing)
}
