package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/notify"
	"github.com/milk9111/neonfolio/session"
	"github.com/milk9111/neonfolio/stage"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var (
	hudFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	neonCyan   = colornames.Aqua
	neonPurple = color.RGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}
	neonGold   = colornames.Gold
	panelFill  = color.RGBA{R: 0x05, G: 0x05, B: 0x14, A: 0xd0}
)

// HUD is the gamification overlay plus the ebitenui scene picker and
// continue button.
type HUD struct {
	ui    *ebitenui.UI
	stage *stage.Stage

	dots      []*widget.Button
	group     *widget.RadioGroup
	cont      *widget.Button
	lastIndex int
	lastLabel string
}

func NewHUD(st *stage.Stage) *HUD {
	h := &HUD{stage: st, lastIndex: -1}

	dotIdle := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x44, A: 0xff})
	dotHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x77, A: 0xff})
	dotActive := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0xf5, B: 0xff, A: 0xff})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x10, G: 0x10, B: 0x30, A: 0xe0})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x2a, G: 0x1a, B: 0x5a, A: 0xf0})
	btnTextColor := &widget.ButtonTextColor{Idle: neonCyan}

	picker := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(12),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 24, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionEnd}),
		),
	)

	scenes := st.Scenes()
	elements := make([]widget.RadioGroupElement, 0, len(scenes))
	for range scenes {
		dot := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: dotIdle, Hover: dotHover, Pressed: dotActive}),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(14, 14)),
		)
		h.dots = append(h.dots, dot)
		elements = append(elements, dot)
		picker.AddChild(dot)
	}

	// Selecting the active scene is a no-op, so the group echoing back a
	// programmatic SetActive is harmless.
	// Without an initial element the group's deferred setup would activate
	// the first dot and jump back to the first scene.
	h.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.InitialElement(h.dots[st.Snapshot().SceneIndex]),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for i, d := range h.dots {
				if args.Active == d {
					h.stage.Select(i)
					return
				}
			}
		}),
	)

	h.cont = widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnHover}),
		widget.ButtonOpts.Text(st.Active().ContinueLabel, &hudFace, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(200, 40)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			h.stage.Continue()
		}),
	)
	contBox := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Padding(&widget.Insets{Bottom: 20, Right: 24}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionEnd}),
		),
	)
	contBox.AddChild(h.cont)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(picker)
	root.AddChild(contBox)

	h.ui = &ebitenui.UI{Container: root}
	h.sync()
	return h
}

func (h *HUD) Update() {
	h.ui.Update()
	h.sync()
}

// sync mirrors the active scene onto the picker and the continue label.
func (h *HUD) sync() {
	idx := h.stage.Snapshot().SceneIndex
	if idx != h.lastIndex && idx >= 0 && idx < len(h.dots) {
		h.group.SetActive(h.dots[idx])
		h.lastIndex = idx
	}
	label := h.stage.Active().ContinueLabel
	if label == "" {
		label = "CONTINUE"
	}
	if label != h.lastLabel {
		if t := h.cont.Text(); t != nil {
			t.Label = label
		}
		h.lastLabel = label
	}
}

func (h *HUD) Draw(screen *ebiten.Image, hint bool) {
	snap := h.stage.Snapshot()
	drawSceneTitle(screen, snap)
	drawLevelBox(screen, snap)
	for _, n := range snap.Notifications {
		age := n.Age(snap.Now)
		switch n.Kind {
		case notify.KindLevelUp:
			drawLevelUp(screen, n, age)
		case notify.KindAchievement:
			drawAchievement(screen, n, age)
		case notify.KindXP:
			drawPopup(screen, n, age)
		case notify.KindBanner:
			drawBanner(screen, n, age)
		}
	}
	if hint {
		drawText(screen, h.hint(), 24, common.BaseHeight-28, 1, colornames.Lightgrey, ebtext.AlignStart)
	}
	h.ui.Draw(screen)
}

func (h *HUD) hint() string {
	if h.stage.Muted() {
		return "ENTER continue | 1-5 jump | M unmute | ESC quit"
	}
	return "ENTER continue | 1-5 jump | M mute | ESC quit"
}

func drawSceneTitle(screen *ebiten.Image, snap session.Snapshot) {
	title := fmt.Sprintf("%02d / %02d  %s", snap.SceneIndex+1, snap.SceneCount, strings.ToUpper(snap.SceneName))
	drawText(screen, title, 24, 24, 1.5, neonCyan, ebtext.AlignStart)
}

func drawLevelBox(screen *ebiten.Image, snap session.Snapshot) {
	const w, h = 220, 64
	x := float32(common.BaseWidth - w - 20)
	y := float32(20)
	vector.FillRect(screen, x, y, w, h, panelFill, false)
	vector.StrokeRect(screen, x, y, w, h, 1.5, neonCyan, false)

	drawText(screen, fmt.Sprintf("LEVEL %d", snap.Level), float64(x)+12, float64(y)+10, 1.5, neonCyan, ebtext.AlignStart)
	drawText(screen, fmt.Sprintf("%d XP", snap.Experience), float64(x+w)-12, float64(y)+14, 1, neonPurple, ebtext.AlignEnd)

	barX, barY, barW := x+12, y+h-18, float32(w-24)
	vector.FillRect(screen, barX, barY, barW, 6, color.RGBA{R: 0x22, G: 0x22, B: 0x33, A: 0xff}, false)
	vector.FillRect(screen, barX, barY, barW*float32(common.Clamp(snap.LevelProgress, 0, 1)), 6, neonCyan, false)
}

func drawLevelUp(screen *ebiten.Image, n notify.Notification, age float64) {
	a := fade(age)
	cx := float64(common.BaseWidth) / 2
	cy := float64(common.BaseHeight)/2 - 80
	scale := 4 + 0.5*(1-age)
	drawText(screen, "LEVEL UP!", cx, cy, scale, withAlpha(neonGold, a), ebtext.AlignCenter)
	drawText(screen, fmt.Sprintf("LEVEL %d", n.Level), cx, cy+64, 2, withAlpha(neonCyan, a), ebtext.AlignCenter)
}

func drawAchievement(screen *ebiten.Image, n notify.Notification, age float64) {
	a := fade(age)
	const w, h = 320, 60
	slide := float32(0)
	if age < 0.1 {
		slide = float32((0.1 - age) / 0.1 * 80)
	}
	x := float32(common.BaseWidth-w) / 2
	y := float32(24) - slide
	vector.FillRect(screen, x, y, w, h, withAlpha(panelFill, a), false)
	vector.StrokeRect(screen, x, y, w, h, 2, withAlpha(neonPurple, a), false)
	drawText(screen, "ACHIEVEMENT UNLOCKED", float64(x)+w/2, float64(y)+10, 1, withAlpha(neonPurple, a), ebtext.AlignCenter)
	drawText(screen, n.Title, float64(x)+w/2, float64(y)+30, 1.5, withAlpha(neonGold, a), ebtext.AlignCenter)
}

func drawPopup(screen *ebiten.Image, n notify.Notification, age float64) {
	a := 1 - age
	x := n.AnchorX * common.BaseWidth
	y := n.AnchorY*common.BaseHeight - age*60
	drawText(screen, fmt.Sprintf("+%d XP", n.Amount), x, y, 2, withAlpha(neonGold, a), ebtext.AlignCenter)
	if n.Label != "" {
		drawText(screen, n.Label, x, y+30, 1, withAlpha(neonCyan, a), ebtext.AlignCenter)
	}
}

func drawBanner(screen *ebiten.Image, n notify.Notification, age float64) {
	a := fade(age)
	cy := float64(common.BaseHeight) * 0.72
	vector.FillRect(screen, 0, float32(cy)-12, common.BaseWidth, 48, withAlpha(panelFill, a), false)
	drawText(screen, n.Title, common.BaseWidth/2, cy, 2, withAlpha(colornames.Lime, a), ebtext.AlignCenter)
}

func drawText(screen *ebiten.Image, s string, x, y, scale float64, clr color.Color, align ebtext.Align) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	ebtext.Draw(screen, s, hudFace, op)
}

// fade keeps full opacity for most of a notification's life and fades out
// over the last fifth.
func fade(age float64) float64 {
	if age < 0.8 {
		return 1
	}
	return common.Clamp((1-age)/0.2, 0, 1)
}

func withAlpha(c color.Color, a float64) color.Color {
	r, g, b, al := c.RGBA()
	k := common.Clamp(a, 0, 1)
	return color.RGBA64{
		R: uint16(float64(r) * k),
		G: uint16(float64(g) * k),
		B: uint16(float64(b) * k),
		A: uint16(float64(al) * k),
	}
}
