package prefabs

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenesEmbedded(t *testing.T) {
	SetDiskRoot("")
	t.Cleanup(func() { SetDiskRoot("prefabs") })

	spec, err := LoadScenes()
	require.NoError(t, err)
	require.Len(t, spec.Scenes, 5)

	ids := make([]string, 0, len(spec.Scenes))
	for _, sc := range spec.Scenes {
		ids = append(ids, sc.ID)
		assert.NotEmpty(t, sc.ContinueLabel, sc.ID)
		assert.NotEmpty(t, sc.Script, sc.ID)

		_, err := LoadScript(sc.Script)
		assert.NoError(t, err, sc.ID)
	}
	assert.Equal(t, []string{"dock", "city", "skills", "projects", "contact"}, ids)
}

func TestParseScenesValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		err  string
	}{
		{"empty", "scenes: []", "no scenes"},
		{"missing_id", "scenes:\n  - name: A\n", "has no id"},
		{"duplicate", "scenes:\n  - id: a\n  - id: a\n", "duplicate scene id"},
		{"bare_entity", "scenes:\n  - id: a\n    entities:\n      - name: e\n", "has no components"},
		{"bad_yaml", "scenes: [", "unmarshal"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseScenes([]byte(c.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.err)
		})
	}
}

func TestParseScenesLayout(t *testing.T) {
	src := `
scenes:
  - id: a
    ambient: {root: 110, volume: 0.2}
    entities:
      - name: ring
        layout: {kind: ring, count: 3, radius: 2, items: [{label: X, color: "#ff0000"}]}
        components:
          mesh: {kind: gem}
`
	spec, err := ParseScenes([]byte(src))
	require.NoError(t, err)
	e := spec.Scenes[0].Entities[0]
	require.NotNil(t, e.Layout)
	assert.Equal(t, 3, e.Layout.Count)
	assert.Equal(t, "X", e.Layout.Items[0].Label)
	assert.InDelta(t, 110, spec.Scenes[0].Ambient.Root, 1e-9)

	mesh, err := DecodeComponentSpec[MeshComponentSpec](e.Components["mesh"])
	require.NoError(t, err)
	assert.Equal(t, "gem", mesh.Kind)
}

func TestDecodeComponentSpecNil(t *testing.T) {
	got, err := DecodeComponentSpec[SpinComponentSpec](nil)
	require.NoError(t, err)
	assert.Equal(t, SpinComponentSpec{}, got)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#61dafb")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x61, G: 0xda, B: 0xfb, A: 0xff}, c)

	c, err = ParseColor("00ff0080")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0x80}, c)

	for _, bad := range []string{"", "#fff", "#gggggg"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestColorOr(t *testing.T) {
	def := color.NRGBA{R: 1, A: 0xff}
	assert.Equal(t, def, ColorOr("", def))
	assert.Equal(t, def, ColorOr("nope", def))
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0xff}, ColorOr("#0000ff", def))
}

func TestCleanPaths(t *testing.T) {
	assert.Equal(t, "scripts/dock.tengo", cleanScriptPath("dock.tengo"))
	assert.Equal(t, "scripts/dock.tengo", cleanScriptPath("prefabs/scripts/dock.tengo"))
	assert.Equal(t, "scripts/dock.tengo", cleanScriptPath("scripts/dock.tengo"))
	assert.Equal(t, "", cleanScriptPath(""))
	assert.Equal(t, "scenes.yaml", cleanPrefabPath("prefabs/scenes.yaml"))
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, "scenes.yaml", "scenes: [{id: disk}]"))
	SetDiskRoot(dir)
	t.Cleanup(func() { SetDiskRoot("prefabs") })

	spec, err := LoadScenes()
	require.NoError(t, err)
	require.Len(t, spec.Scenes, 1)
	assert.Equal(t, "disk", spec.Scenes[0].ID)

	// Files missing on disk fall back to the embedded copy.
	_, err = LoadScript("dock.tengo")
	assert.NoError(t, err)
}
