// Package notify keeps the transient overlay notifications (level-up banner,
// achievement toasts, XP popups, confirmation banners) and expires each one
// on its own timer.
package notify

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/milk9111/neonfolio/logging"
	"github.com/milk9111/neonfolio/timer"
	"go.uber.org/zap"
)

type Kind int

const (
	KindLevelUp Kind = iota
	KindAchievement
	KindXP
	KindBanner
)

func (k Kind) String() string {
	switch k {
	case KindLevelUp:
		return "level_up"
	case KindAchievement:
		return "achievement"
	case KindXP:
		return "xp"
	case KindBanner:
		return "banner"
	default:
		return "unknown"
	}
}

const (
	LevelUpLifetime     = 3000 * time.Millisecond
	AchievementLifetime = 4000 * time.Millisecond
	PopupLifetime       = 2000 * time.Millisecond
	MaxPopupLifetime    = 3000 * time.Millisecond
	BannerLifetime      = 4000 * time.Millisecond
)

// ID orders notifications by creation. Two notifications created at the same
// clock reading still get distinct IDs.
type ID uint64

type Notification struct {
	ID        ID
	Kind      Kind
	CreatedAt time.Duration
	ExpiresAt time.Duration

	// Level is set for KindLevelUp.
	Level int
	// AchievementID and Title are set for KindAchievement; Title doubles as
	// the banner text for KindBanner.
	AchievementID string
	Title         string
	// Amount, Label and the anchor are set for KindXP. The anchor is in
	// normalized screen coordinates.
	Amount  int
	Label   string
	AnchorX float64
	AnchorY float64
}

// Age returns how far the notification is through its lifetime, in [0,1].
func (n Notification) Age(now time.Duration) float64 {
	life := n.ExpiresAt - n.CreatedAt
	if life <= 0 {
		return 1
	}
	a := float64(now-n.CreatedAt) / float64(life)
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

type active struct {
	n     Notification
	timer timer.ID
}

// Scheduler holds the active notifications. It is driven entirely by the
// timer set it was given and must be used from the goroutine that advances
// that set.
type Scheduler struct {
	timers *timer.Set
	rng    *rand.Rand
	logger *zap.Logger

	next   ID
	active []active
}

type Option func(*Scheduler)

// WithRand replaces the source used for popup anchors.
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.rng = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logging.OrNop(l)
	}
}

func NewScheduler(timers *timer.Set, opts ...Option) *Scheduler {
	if timers == nil {
		timers = timer.NewSet()
	}
	s := &Scheduler{
		timers: timers,
		rng:    rand.New(rand.NewPCG(1, 2)),
		logger: logging.OrNop(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue stamps n with an ID and deadline, adds it to the active set and
// starts its expiry timer. A level-up notice replaces any level-up notice
// that is still showing.
func (s *Scheduler) Enqueue(n Notification, lifetime time.Duration) ID {
	if s == nil {
		return 0
	}
	if lifetime <= 0 {
		lifetime = defaultLifetime(n.Kind)
	}

	if n.Kind == KindLevelUp {
		s.dropKind(KindLevelUp)
	}

	s.next++
	n.ID = s.next
	n.CreatedAt = s.timers.Now()
	n.ExpiresAt = n.CreatedAt + lifetime

	id := n.ID
	tid := s.timers.After(lifetime, func() { s.expire(id) })
	s.active = append(s.active, active{n: n, timer: tid})

	s.logger.Debug("notification enqueued",
		zap.Stringer("kind", n.Kind),
		zap.Uint64("id", uint64(id)),
		zap.Duration("lifetime", lifetime))
	return id
}

// NotifyLevelUp satisfies progression.Notifier.
func (s *Scheduler) NotifyLevelUp(level int) {
	s.Enqueue(Notification{Kind: KindLevelUp, Level: level}, LevelUpLifetime)
}

// NotifyAchievement satisfies progression.Notifier.
func (s *Scheduler) NotifyAchievement(id, name string) {
	s.Enqueue(Notification{Kind: KindAchievement, AchievementID: id, Title: name}, AchievementLifetime)
}

// Popup shows a floating XP gain at a random anchor near the screen center.
// Lifetimes outside [PopupLifetime, MaxPopupLifetime] are clamped.
func (s *Scheduler) Popup(amount int, label string, lifetime time.Duration) ID {
	if s == nil {
		return 0
	}
	if lifetime < PopupLifetime {
		lifetime = PopupLifetime
	}
	if lifetime > MaxPopupLifetime {
		lifetime = MaxPopupLifetime
	}
	return s.Enqueue(Notification{
		Kind:    KindXP,
		Amount:  amount,
		Label:   label,
		AnchorX: 0.35 + 0.3*s.rng.Float64(),
		AnchorY: 0.4 + 0.2*s.rng.Float64(),
	}, lifetime)
}

func (s *Scheduler) Banner(text string) ID {
	return s.Enqueue(Notification{Kind: KindBanner, Title: text}, BannerLifetime)
}

// Active returns the visible notifications in creation order.
func (s *Scheduler) Active() []Notification {
	if s == nil {
		return nil
	}
	out := make([]Notification, 0, len(s.active))
	for _, a := range s.active {
		out = append(out, a.n)
	}
	return out
}

// Count returns how many notifications of kind k are visible.
func (s *Scheduler) Count(k Kind) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, a := range s.active {
		if a.n.Kind == k {
			n++
		}
	}
	return n
}

// Close cancels every expiry timer the scheduler owns and clears the set.
func (s *Scheduler) Close() {
	if s == nil {
		return
	}
	for _, a := range s.active {
		s.timers.Cancel(a.timer)
	}
	s.active = nil
}

func (s *Scheduler) expire(id ID) {
	i := slices.IndexFunc(s.active, func(a active) bool { return a.n.ID == id })
	if i < 0 {
		return
	}
	s.active = slices.Delete(s.active, i, i+1)
}

func (s *Scheduler) dropKind(k Kind) {
	s.active = slices.DeleteFunc(s.active, func(a active) bool {
		if a.n.Kind != k {
			return false
		}
		s.timers.Cancel(a.timer)
		return true
	})
}

func defaultLifetime(k Kind) time.Duration {
	switch k {
	case KindLevelUp:
		return LevelUpLifetime
	case KindAchievement:
		return AchievementLifetime
	case KindBanner:
		return BannerLifetime
	default:
		return PopupLifetime
	}
}
