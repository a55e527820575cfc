package system

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/ecs/render"
	"golang.org/x/image/font/basicfont"
)

var labelFace = text.NewGoXFace(basicfont.Face7x13)

// RenderSystem draws the wireframe world, labels, click pulses and the
// contact terminal.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Update(w *ecs.World) {}

type drawItem struct {
	ent   ecs.Entity
	depth float64
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	proj, ok := projectorFor(w)
	if !ok {
		return
	}

	// Far to near so close geometry lands on top.
	var items []drawItem
	ecs.ForEach2(w, component.MeshComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Mesh, tr *component.Transform) {
		_, _, depth, _ := proj.Project(tr.Position)
		items = append(items, drawItem{ent: e, depth: depth})
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })

	for _, it := range items {
		mesh, _ := ecs.Get(w, it.ent, component.MeshComponent.Kind())
		tr, _ := ecs.Get(w, it.ent, component.TransformComponent.Kind())
		hovered := false
		if in, ok := ecs.Get(w, it.ent, component.InteractableComponent.Kind()); ok {
			hovered = in.Hovered
		}
		drawMesh(screen, proj, mesh, tr, hovered)
	}

	ecs.ForEach2(w, component.LabelComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, l *component.Label, tr *component.Transform) {
		drawLabel(screen, proj, l, tr)
	})

	ecs.ForEach(w, component.PulseComponent.Kind(), func(_ ecs.Entity, p *component.Pulse) {
		drawPulse(screen, p)
	})

	ecs.ForEach2(w, component.TerminalComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, term *component.Terminal, tr *component.Transform) {
		drawTerminal(screen, proj, term, tr)
	})
}

func drawMesh(screen *ebiten.Image, proj render.Projector, mesh *component.Mesh, tr *component.Transform, hovered bool) {
	width := float32(1.5)
	if hovered {
		width = 3
	}
	for _, seg := range mesh.Edges {
		a := render.Apply(seg.A, tr.Scale, tr.Rotation, tr.Position)
		b := render.Apply(seg.B, tr.Scale, tr.Rotation, tr.Position)
		a, b, ok := proj.ClipSegment(a, b)
		if !ok {
			continue
		}
		x0, y0, d0, ok0 := proj.Project(a)
		x1, y1, d1, ok1 := proj.Project(b)
		if !ok0 || !ok1 {
			continue
		}
		col := fade(mesh.Color, (d0+d1)/2, hovered)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, col, true)
	}
	for _, p := range mesh.Points {
		x, y, d, ok := proj.Project(render.Apply(p, tr.Scale, tr.Rotation, tr.Position))
		if !ok {
			continue
		}
		size := float32(math.Max(1, 2.5-d*0.03))
		vector.FillRect(screen, float32(x), float32(y), size, size, fade(mesh.Color, d, false), false)
	}
}

// fade dims a colour with distance so the scene reads as having depth.
func fade(c color.NRGBA, depth float64, bright bool) color.NRGBA {
	k := 1 / (1 + math.Max(0, depth)*0.04)
	if bright {
		k = 1
	}
	c.A = uint8(float64(c.A) * math.Max(0.15, k))
	return c
}

func drawLabel(screen *ebiten.Image, proj render.Projector, l *component.Label, tr *component.Transform) {
	anchor := tr.Position
	anchor.Y += l.Offset
	x, y, _, ok := proj.Project(anchor)
	if !ok {
		return
	}
	drawCentered(screen, l.Text, x, y, 1, l.Color)
	if l.Sub != "" {
		sub := l.Color
		sub.A = 0xb0
		drawCentered(screen, l.Sub, x, y+16, 1, sub)
	}
}

func drawCentered(screen *ebiten.Image, s string, x, y, scale float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, s, labelFace, op)
}

func drawPulse(screen *ebiten.Image, p *component.Pulse) {
	if p.Life <= 0 {
		return
	}
	t := float64(p.Age) / float64(p.Life)
	if t > 1 {
		return
	}
	c := color.NRGBA{
		R: uint8(p.Color[0] * 255),
		G: uint8(p.Color[1] * 255),
		B: uint8(p.Color[2] * 255),
		A: uint8((1 - t) * 255),
	}
	vector.StrokeCircle(screen, float32(p.X), float32(p.Y), float32(p.MaxRadius*t), 2, c, true)
}

var (
	terminalCyan  = color.NRGBA{R: 0x00, G: 0xf5, B: 0xff, A: 0xff}
	terminalGreen = color.NRGBA{R: 0x39, G: 0xff, B: 0x14, A: 0xff}
	terminalRed   = color.NRGBA{R: 0xff, G: 0x4d, B: 0x6d, A: 0xff}
)

func drawTerminal(screen *ebiten.Image, proj render.Projector, term *component.Terminal, tr *component.Transform) {
	cx, cy, _, ok := proj.Project(tr.Position)
	if !ok {
		return
	}

	const lineH = 22.0
	top := cy - lineH*float64(len(term.Fields)+1)/2
	left := cx - 220

	cursor := ""
	if term.Frames/30%2 == 0 {
		cursor = "_"
	}
	for i, f := range term.Fields {
		col := terminalCyan
		prefix := "  "
		if i == term.Focus {
			prefix = term.Prompt
			col = terminalGreen
		}
		val := f.Value
		if r := []rune(val); len(r) > 44 {
			val = "..." + string(r[len(r)-41:])
		}
		line := prefix + f.Label + ": " + val
		if i == term.Focus {
			line += cursor
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(left, top+float64(i)*lineH)
		op.ColorScale.ScaleWithColor(col)
		text.Draw(screen, line, labelFace, op)
	}

	status, col := "[TAB] next field   [ENTER] transmit", terminalCyan
	switch {
	case term.Error != "":
		status, col = "ERROR: "+strings.ToUpper(term.Error), terminalRed
	case term.Sent:
		status, col = "TRANSMISSION SENT", terminalGreen
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(left, top+float64(len(term.Fields))*lineH+6)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, status, labelFace, op)
}
