package stage

import (
	"time"

	"github.com/milk9111/neonfolio/camera"
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs/system"
	"github.com/milk9111/neonfolio/script"
)

var _ script.Host = (*host)(nil)

// host is what scene scripts see of the stage. Navigation is queued and
// applied once the running hook has returned.
type host struct {
	st *Stage
}

func (h *host) AddExperience(amount int) {
	before := h.st.sess.Progression.Level()
	h.st.sess.AddExperience(amount)
	if h.st.sess.Progression.Level() > before {
		system.KickGlitch(h.st.world, 1)
		system.PlaySound(h.st.world, SoundLevelUp)
	}
}

func (h *host) UnlockAchievement(id, name string) {
	if h.st.sess.Progression.Unlocked(id) {
		return
	}
	h.st.sess.UnlockAchievement(id, name)
	if h.st.sess.Progression.Unlocked(id) {
		system.PlaySound(h.st.world, SoundAchievement)
	}
}

// Popup uses the active scene's popup lifetime.
func (h *host) Popup(amount int, label string) {
	ms := 0
	if h.st.mounted >= 0 {
		ms = h.st.scenes[h.st.mounted].PopupMillis
	}
	h.st.sess.Notifications.Popup(amount, label, time.Duration(ms)*time.Millisecond)
}

func (h *host) Banner(text string) {
	h.st.sess.Notifications.Banner(text)
}

func (h *host) Advance() {
	h.st.nav = navRequest{kind: navAdvance}
}

func (h *host) Select(index int) bool {
	if index < 0 || index >= h.st.sess.Scenes.Len() {
		return false
	}
	h.st.nav = navRequest{kind: navSelect, index: index}
	return true
}

func (h *host) CameraTo(pos, look common.Vec3, secs float64) {
	h.st.sess.Camera.Request(camera.Transition{
		Position: &pos,
		LookAt:   &look,
		Duration: seconds(secs),
	})
}

func (h *host) Experience() int { return h.st.sess.Progression.Experience() }
func (h *host) Level() int      { return h.st.sess.Progression.Level() }

func (h *host) Unlocked(id string) bool {
	return h.st.sess.Progression.Unlocked(id)
}
