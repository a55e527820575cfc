// Package session owns the per-run state of the presentation: the clock and
// its timers, progression, notifications, the scene sequence and the camera.
// A Session is created when the window opens and closed when it goes away.
package session

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/neonfolio/camera"
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/logging"
	"github.com/milk9111/neonfolio/notify"
	"github.com/milk9111/neonfolio/progression"
	"github.com/milk9111/neonfolio/scene"
	"github.com/milk9111/neonfolio/timer"
	"go.uber.org/zap"
)

type Options struct {
	Scenes      []scene.Descriptor
	CameraStart common.Vec3
	Seed        uint64
	Logger      *zap.Logger
}

type Session struct {
	ID string

	Timers        *timer.Set
	Notifications *notify.Scheduler
	Progression   *progression.Store
	Scenes        *scene.Sequencer
	Camera        *camera.Director

	logger *zap.Logger
	closed bool
}

// Snapshot is a copy of everything the overlay paints, taken after all
// mutations for a tick have been applied.
type Snapshot struct {
	Now           time.Duration
	Experience    int
	Level         int
	LevelProgress float64
	Achievements  []progression.Achievement
	Notifications []notify.Notification
	SceneIndex    int
	SceneCount    int
	SceneID       string
	SceneName     string
	Camera        camera.Pose
}

func New(opts Options) (*Session, error) {
	logger := logging.OrNop(opts.Logger)
	id := uuid.NewString()
	logger = logger.With(zap.String("session", id))

	seq, err := scene.NewSequencer(opts.Scenes...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	timers := timer.NewSet()
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	notifications := notify.NewScheduler(timers,
		notify.WithRand(rand.New(rand.NewPCG(seed, seed>>1|1))),
		notify.WithLogger(logger.Named("notify")),
	)

	s := &Session{
		ID:            id,
		Timers:        timers,
		Notifications: notifications,
		Progression:   progression.NewStore(notifications),
		Scenes:        seq,
		Camera:        camera.NewDirector(opts.CameraStart),
		logger:        logger,
	}
	seq.OnChange(func(prev, next int) {
		d := seq.Active()
		logger.Info("scene entered",
			zap.Int("from", prev),
			zap.Int("index", next),
			zap.String("scene", d.ID))
	})
	logger.Info("session started", zap.Int("scenes", seq.Len()))
	return s, nil
}

// Update advances the session clock by dt: due timers fire first, then the
// camera moves.
func (s *Session) Update(dt time.Duration) {
	if s == nil || s.closed {
		return
	}
	s.Timers.Advance(dt)
	s.Camera.Update(dt)
}

// AddExperience and UnlockAchievement log and forward to the store.
func (s *Session) AddExperience(amount int) {
	if s == nil {
		return
	}
	if s.Progression.AddExperience(amount) {
		s.logger.Info("level up", zap.Int("level", s.Progression.Level()), zap.Int("xp", s.Progression.Experience()))
	}
}

func (s *Session) UnlockAchievement(id, name string) {
	if s == nil {
		return
	}
	if s.Progression.UnlockAchievement(id, name) {
		s.logger.Info("achievement unlocked", zap.String("id", id))
	}
}

func (s *Session) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	active := s.Scenes.Active()
	return Snapshot{
		Now:           s.Timers.Now(),
		Experience:    s.Progression.Experience(),
		Level:         s.Progression.Level(),
		LevelProgress: s.Progression.LevelProgress(),
		Achievements:  s.Progression.Achievements(),
		Notifications: s.Notifications.Active(),
		SceneIndex:    s.Scenes.Index(),
		SceneCount:    s.Scenes.Len(),
		SceneID:       active.ID,
		SceneName:     active.Name,
		Camera:        s.Camera.Pose(),
	}
}

// Close cancels every outstanding timer. The session ignores updates after
// it is closed.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.Notifications.Close()
	s.Timers.Clear()
	s.logger.Info("session closed",
		zap.Int("xp", s.Progression.Experience()),
		zap.Int("achievements", len(s.Progression.Achievements())))
}

func (s *Session) Logger() *zap.Logger {
	if s == nil {
		return logging.OrNop(nil)
	}
	return s.logger
}
