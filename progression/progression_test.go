package progression

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	levelUps     []int
	achievements []string
}

func (r *recorder) NotifyLevelUp(level int) { r.levelUps = append(r.levelUps, level) }

func (r *recorder) NotifyAchievement(id, _ string) {
	r.achievements = append(r.achievements, id)
}

func TestNewStoreStartsAtLevelOne(t *testing.T) {
	s := NewStore(nil)
	assert.Equal(t, 0, s.Experience())
	assert.Equal(t, 1, s.Level())
	assert.Empty(t, s.Achievements())
}

func TestLevelTracksExperience(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	s := NewStore(&recorder{})
	total := 0
	for i := 0; i < 500; i++ {
		amount := rng.IntN(250) + 1
		total += amount
		s.AddExperience(amount)
		require.Equal(t, total, s.Experience())
		require.Equal(t, total/100+1, s.Level())
	}
}

func TestLevelUpScenario(t *testing.T) {
	rec := &recorder{}
	s := NewStore(rec)

	assert.False(t, s.AddExperience(95))
	assert.Equal(t, 1, s.Level())
	assert.Empty(t, rec.levelUps)

	assert.True(t, s.AddExperience(10))
	assert.Equal(t, 105, s.Experience())
	assert.Equal(t, 2, s.Level())
	assert.Equal(t, []int{2}, rec.levelUps)
}

func TestMultiLevelCrossingEmitsOneNotice(t *testing.T) {
	rec := &recorder{}
	s := NewStore(rec)

	s.AddExperience(350)
	assert.Equal(t, 4, s.Level())
	assert.Equal(t, []int{4}, rec.levelUps)
}

func TestAddExperienceIgnoresNonPositive(t *testing.T) {
	rec := &recorder{}
	s := NewStore(rec)
	s.AddExperience(40)

	for _, amount := range []int{0, -5, -1000} {
		assert.False(t, s.AddExperience(amount))
	}
	assert.Equal(t, 40, s.Experience())
	assert.Equal(t, 1, s.Level())
}

func TestUnlockAchievementIsIdempotent(t *testing.T) {
	rec := &recorder{}
	s := NewStore(rec)

	assert.True(t, s.UnlockAchievement("city_explorer", "City Explorer"))
	assert.False(t, s.UnlockAchievement("city_explorer", "City Explorer"))

	assert.Equal(t, []Achievement{{ID: "city_explorer", Name: "City Explorer"}}, s.Achievements())
	assert.Equal(t, []string{"city_explorer"}, rec.achievements)
	assert.True(t, s.Unlocked("city_explorer"))
}

func TestAchievementsKeepUnlockOrder(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"c", "a", "b", "a", "c"} {
		s.UnlockAchievement(id, id)
	}

	got := s.Achievements()
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "b", got[2].ID)

	got[0].ID = "mutated"
	assert.Equal(t, "c", s.Achievements()[0].ID, "accessor returns a copy")
}

func TestLevelProgress(t *testing.T) {
	s := NewStore(nil)
	s.AddExperience(130)
	assert.InDelta(t, 0.3, s.LevelProgress(), 1e-9)
}

func TestLevelFor(t *testing.T) {
	cases := map[int]int{0: 1, 99: 1, 100: 2, 199: 2, 250: 3, -10: 1}
	for xp, want := range cases {
		assert.Equal(t, want, LevelFor(xp), "xp=%d", xp)
	}
}
