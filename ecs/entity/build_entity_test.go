package entity

import (
	"math"
	"testing"

	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadScene(t *testing.T, id string) prefabs.SceneSpec {
	t.Helper()
	spec, err := prefabs.LoadScenes()
	require.NoError(t, err)
	for _, sc := range spec.Scenes {
		if sc.ID == id {
			return sc
		}
	}
	t.Fatalf("scene %q not found", id)
	return prefabs.SceneSpec{}
}

func TestBuildSceneCity(t *testing.T) {
	w := ecs.NewWorld()
	ents, err := BuildScene(w, loadScene(t, "city"))
	require.NoError(t, err)
	// street, 20 buildings, three panels
	assert.Len(t, ents, 24)

	var heights []float64
	ecs.ForEach(w, component.MeshComponent.Kind(), func(e ecs.Entity, m *component.Mesh) {
		if m.Kind != component.MeshBox {
			return
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		require.True(t, ok)
		heights = append(heights, tr.Scale.Y)
		assert.InDelta(t, tr.Scale.Y/2, tr.Position.Y, 1e-9)
	})
	require.Len(t, heights, 20)
	for _, h := range heights {
		assert.GreaterOrEqual(t, h, 2.0)
		assert.Less(t, h, 6.0)
	}

	labels := map[string]bool{}
	ecs.ForEach(w, component.LabelComponent.Kind(), func(_ ecs.Entity, l *component.Label) {
		labels[l.Text] = true
	})
	assert.True(t, labels["Full Stack Developer"])
	assert.True(t, labels["React & Node.js Expert"])
	assert.True(t, labels["3D Web Experiences"])
}

func TestBuildSceneSkillsRing(t *testing.T) {
	w := ecs.NewWorld()
	_, err := BuildScene(w, loadScene(t, "skills"))
	require.NoError(t, err)

	items := map[string]common.Vec3{}
	ecs.ForEach2(w, component.InteractableComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, in *component.Interactable, tr *component.Transform) {
			items[in.Item] = tr.Position
		})
	require.Len(t, items, 6)
	for _, name := range []string{"React", "Node.js", "Three.js", "Python", "MongoDB", "AWS"} {
		pos, ok := items[name]
		require.True(t, ok, name)
		assert.InDelta(t, 3.0, math.Hypot(pos.X, pos.Z), 1e-9)
	}
}

func TestBuildSceneTagsMembersAndDestroys(t *testing.T) {
	w := ecs.NewWorld()
	ents, err := BuildScene(w, loadScene(t, "projects"))
	require.NoError(t, err)
	require.Len(t, ents, 4)

	other := ecs.CreateEntity(w)
	assert.Equal(t, 4, DestroyScene(w, "projects"))
	assert.Equal(t, 0, DestroyScene(w, "projects"))
	for _, e := range ents {
		assert.False(t, ecs.IsAlive(w, e))
	}
	assert.True(t, ecs.IsAlive(w, other))
}

func TestBuildSceneTerminal(t *testing.T) {
	w := ecs.NewWorld()
	_, err := BuildScene(w, loadScene(t, "contact"))
	require.NoError(t, err)

	ent, ok := ecs.First(w, component.TerminalComponent.Kind())
	require.True(t, ok)
	term, _ := ecs.Get(w, ent, component.TerminalComponent.Kind())
	require.Len(t, term.Fields, 3)
	assert.Equal(t, "EMAIL", term.Fields[1].Label)
	assert.Equal(t, 120, term.MaxChars)
}

func TestBuildSceneErrorsRollBack(t *testing.T) {
	cases := []struct {
		name string
		spec prefabs.SceneSpec
	}{
		{"unknown_component", prefabs.SceneSpec{ID: "x", Entities: []prefabs.EntityBuildSpec{
			{Name: "ok", Components: map[string]any{"spin": map[string]any{"speed": 1}}},
			{Name: "bad", Components: map[string]any{"laser": map[string]any{}}},
		}}},
		{"unknown_mesh", prefabs.SceneSpec{ID: "x", Entities: []prefabs.EntityBuildSpec{
			{Name: "bad", Components: map[string]any{"mesh": map[string]any{"kind": "teapot"}}},
		}}},
		{"bad_color", prefabs.SceneSpec{ID: "x", Entities: []prefabs.EntityBuildSpec{
			{Name: "bad", Components: map[string]any{"mesh": map[string]any{"kind": "box", "color": "#zzz"}}},
		}}},
		{"bad_layout", prefabs.SceneSpec{ID: "x", Entities: []prefabs.EntityBuildSpec{
			{Name: "bad", Layout: &prefabs.LayoutSpec{Kind: "spiral", Count: 2}, Components: map[string]any{"spin": nil}},
		}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := BuildScene(w, c.spec)
			assert.Error(t, err)
			assert.Empty(t, ecs.Entities(w))
		})
	}
}

func TestExpandLayoutGrid(t *testing.T) {
	slots, err := expandLayout(&prefabs.LayoutSpec{Kind: "grid", Count: 20, Columns: 5, Spacing: 4})
	require.NoError(t, err)
	require.Len(t, slots, 20)
	assert.Equal(t, common.V3(-8, 0, -8), slots[0].Offset)
	assert.Equal(t, common.V3(8, 0, -8), slots[4].Offset)
	assert.Equal(t, common.V3(-8, 0, -4), slots[5].Offset)
	assert.Equal(t, common.V3(8, 0, 4), slots[19].Offset)
	assert.False(t, slots[0].Grounded)
}

func TestExpandLayoutItemsCycle(t *testing.T) {
	slots, err := expandLayout(&prefabs.LayoutSpec{
		Kind:  "ring",
		Count: 4,
		Items: []prefabs.LayoutItemSpec{{Color: "#111111"}, {Color: "#222222"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "#111111", slots[2].Item.Color)
	assert.Equal(t, "#222222", slots[3].Item.Color)
}

func TestExpandLayoutNil(t *testing.T) {
	slots, err := expandLayout(nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Nil(t, slots[0])
}

func TestNewSoundBankRejectsMismatch(t *testing.T) {
	w := ecs.NewWorld()
	_, err := NewSoundBank(w, []string{"a", "b"}, nil, 1)
	assert.Error(t, err)
}
