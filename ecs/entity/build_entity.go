package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/ecs/render"
	"github.com/milk9111/neonfolio/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

// buildContext is shared by the component builders of one entity. Slot is
// set when the entity was stamped out of a layout.
type buildContext struct {
	Scene string
	Name  string
	Slot  *slot
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":    addTransform,
	"mesh":         addMesh,
	"spin":         addSpin,
	"bob":          addBob,
	"label":        addLabel,
	"interactable": addInteractable,
	"terminal":     addTerminal,
}

// transform goes first so the layout offset is in place before anything
// reads the position.
var componentBuildOrder = []string{
	"transform",
	"mesh",
	"spin",
	"bob",
	"label",
	"interactable",
	"terminal",
}

// BuildScene creates every entity the scene spec lists, tagging each with the
// scene id. On error the entities created so far are destroyed.
func BuildScene(w *ecs.World, scene prefabs.SceneSpec) ([]ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("build scene: world is nil")
	}

	var out []ecs.Entity
	for _, spec := range scene.Entities {
		slots, err := expandLayout(spec.Layout)
		if err != nil {
			destroyAll(w, out)
			return nil, fmt.Errorf("build scene %q: %s: %w", scene.ID, spec.Name, err)
		}
		for i := range slots {
			e, err := buildEntity(w, spec, &buildContext{Scene: scene.ID, Name: spec.Name, Slot: slots[i]})
			if err != nil {
				destroyAll(w, out)
				return nil, fmt.Errorf("build scene %q: %w", scene.ID, err)
			}
			out = append(out, e)
		}
	}
	return out, nil
}

func buildEntity(w *ecs.World, spec entityPrefabSpec, ctx *buildContext) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("entity %q does not define components", spec.Name)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.SceneMemberComponent.Kind(), &component.SceneMember{Scene: ctx.Scene}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}
	if _, ok := remaining["transform"]; !ok {
		remaining["transform"] = nil
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("entity %q: add %q: %w", spec.Name, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("entity %q: no builder for component %q", spec.Name, names[0])
	}

	return e, nil
}

// DestroyScene removes every entity tagged with scene and returns how many
// went away.
func DestroyScene(w *ecs.World, scene string) int {
	var doomed []ecs.Entity
	ecs.ForEach(w, component.SceneMemberComponent.Kind(), func(e ecs.Entity, m *component.SceneMember) {
		if m.Scene == scene {
			doomed = append(doomed, e)
		}
	})
	destroyAll(w, doomed)
	return len(doomed)
}

func destroyAll(w *ecs.World, ents []ecs.Entity) {
	for _, e := range ents {
		ecs.DestroyEntity(w, e)
	}
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}

	pos := common.V3From(spec.Position)
	scale := common.V3(1, 1, 1)
	if len(spec.Scale) > 0 {
		scale = common.V3From(spec.Scale)
	}
	if ctx.Slot != nil {
		pos = pos.Add(ctx.Slot.Offset)
		if ctx.Slot.Lift > 0 {
			scale.Y += ctx.Slot.Lift
		}
		if ctx.Slot.Grounded {
			pos.Y += scale.Y / 2
		}
	}

	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: pos,
		Base:     pos,
		Scale:    scale,
		Rotation: common.V3From(spec.Rotation),
	})
}

type meshSpec = prefabs.MeshComponentSpec

func addMesh(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[meshSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mesh spec: %w", err)
	}
	if spec.Kind == "" {
		return fmt.Errorf("mesh kind is required")
	}

	col, err := prefabs.ParseColor(orString(spec.Color, "#00f5ff"))
	if err != nil {
		return err
	}
	if ctx.Slot != nil && ctx.Slot.Item != nil && ctx.Slot.Item.Color != "" {
		if col, err = prefabs.ParseColor(ctx.Slot.Item.Color); err != nil {
			return err
		}
	}

	kind := component.MeshKind(spec.Kind)
	edges, points := render.Build(kind, render.Shape{
		Size:   common.V3From(spec.Size),
		Count:  spec.Count,
		Radius: spec.Radius,
		Depth:  spec.Depth,
		Seed:   spec.Seed,
	})
	if len(edges) == 0 && len(points) == 0 {
		return fmt.Errorf("unknown mesh kind %q", spec.Kind)
	}

	return ecs.Add(w, e, component.MeshComponent.Kind(), &component.Mesh{
		Kind:   kind,
		Color:  col,
		Edges:  edges,
		Points: points,
	})
}

type spinSpec = prefabs.SpinComponentSpec

func addSpin(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spinSpec](raw)
	if err != nil {
		return fmt.Errorf("decode spin spec: %w", err)
	}
	axis := common.V3(0, 1, 0)
	if len(spec.Axis) > 0 {
		axis = common.V3From(spec.Axis)
	}
	return ecs.Add(w, e, component.SpinComponent.Kind(), &component.Spin{Axis: axis, Speed: spec.Speed})
}

type bobSpec = prefabs.BobComponentSpec

func addBob(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[bobSpec](raw)
	if err != nil {
		return fmt.Errorf("decode bob spec: %w", err)
	}
	phase := spec.Phase
	if ctx.Slot != nil {
		phase += float64(ctx.Slot.Index) * 0.7
	}
	return ecs.Add(w, e, component.BobComponent.Kind(), &component.Bob{
		Amplitude: spec.Amplitude,
		Speed:     spec.Speed,
		Phase:     phase,
	})
}

type labelSpec = prefabs.LabelComponentSpec

func addLabel(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[labelSpec](raw)
	if err != nil {
		return fmt.Errorf("decode label spec: %w", err)
	}
	label := &component.Label{
		Text:   spec.Text,
		Sub:    spec.Sub,
		Color:  prefabs.ColorOr(spec.Color, white),
		Offset: spec.Offset,
	}
	if ctx.Slot != nil && ctx.Slot.Item != nil {
		if ctx.Slot.Item.Label != "" {
			label.Text = ctx.Slot.Item.Label
		}
		if ctx.Slot.Item.Text != "" {
			label.Sub = ctx.Slot.Item.Text
		}
	}
	return ecs.Add(w, e, component.LabelComponent.Kind(), label)
}

type interactableSpec = prefabs.InteractableComponentSpec

func addInteractable(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[interactableSpec](raw)
	if err != nil {
		return fmt.Errorf("decode interactable spec: %w", err)
	}
	item := spec.Item
	if ctx.Slot != nil && ctx.Slot.Item != nil {
		item = orString(ctx.Slot.Item.Item, orString(ctx.Slot.Item.Label, item))
	}
	if item == "" {
		if label, ok := ecs.Get(w, e, component.LabelComponent.Kind()); ok {
			item = label.Text
		}
	}
	if item == "" {
		item = ctx.Name
	}
	radius := spec.Radius
	if radius <= 0 {
		radius = 40
	}
	return ecs.Add(w, e, component.InteractableComponent.Kind(), &component.Interactable{Item: item, Radius: radius})
}

type terminalSpec = prefabs.TerminalComponentSpec

// Every contact form asks for the same three fields.
var terminalFields = []string{"NAME", "EMAIL", "MESSAGE"}

func addTerminal(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[terminalSpec](raw)
	if err != nil {
		return fmt.Errorf("decode terminal spec: %w", err)
	}
	maxChars := spec.MaxChars
	if maxChars <= 0 {
		maxChars = 120
	}
	fields := make([]component.TerminalField, len(terminalFields))
	for i, label := range terminalFields {
		fields[i] = component.TerminalField{Label: label}
	}
	return ecs.Add(w, e, component.TerminalComponent.Kind(), &component.Terminal{
		Prompt:   orString(spec.Prompt, "> "),
		MaxChars: maxChars,
		Fields:   fields,
	})
}

func orString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
