package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenesFile is the prefab describing the whole scene sequence.
const ScenesFile = "scenes.yaml"

type ScenesSpec struct {
	Scenes []SceneSpec `yaml:"scenes"`
}

type SceneSpec struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Script        string            `yaml:"script"`
	ContinueLabel string            `yaml:"continue_label"`
	PopupMillis   int               `yaml:"popup_ms"`
	Background    string            `yaml:"background"`
	Ambient       TrackSpec         `yaml:"ambient"`
	Camera        SceneCameraSpec   `yaml:"camera"`
	Entities      []EntityBuildSpec `yaml:"entities"`
}

// SceneCameraSpec places the camera when a scene mounts and describes the
// intro move that follows.
type SceneCameraSpec struct {
	Start    []float64 `yaml:"start"`
	Position []float64 `yaml:"position"`
	LookAt   []float64 `yaml:"look_at"`
	Duration float64   `yaml:"duration"`
	FOV      float64   `yaml:"fov"`
}

// TrackSpec describes a synthesized ambient loop.
type TrackSpec struct {
	Name    string  `yaml:"name"`
	Root    float64 `yaml:"root"`
	Pulse   float64 `yaml:"pulse"`
	Shimmer float64 `yaml:"shimmer"`
	Seconds float64 `yaml:"seconds"`
	Volume  float64 `yaml:"volume"`
}

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Layout     *LayoutSpec    `yaml:"layout"`
	Components map[string]any `yaml:"components"`
}

// LayoutSpec stamps one entity spec out several times.
type LayoutSpec struct {
	Kind    string           `yaml:"kind"`
	Count   int              `yaml:"count"`
	Columns int              `yaml:"columns"`
	Spacing float64          `yaml:"spacing"`
	Radius  float64          `yaml:"radius"`
	Jitter  float64          `yaml:"jitter"`
	Seed    uint64           `yaml:"seed"`
	Items   []LayoutItemSpec `yaml:"items"`
}

type LayoutItemSpec struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"`
	Item  string `yaml:"item"`
	Text  string `yaml:"text"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadScenes reads and validates the scene sequence prefab.
func LoadScenes() (ScenesSpec, error) {
	spec, err := LoadSpec[ScenesSpec](ScenesFile)
	if err != nil {
		return ScenesSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return ScenesSpec{}, err
	}
	return spec, nil
}

// ParseScenes decodes a scene sequence from raw YAML.
func ParseScenes(data []byte) (ScenesSpec, error) {
	var spec ScenesSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return ScenesSpec{}, fmt.Errorf("prefabs: unmarshal scenes: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return ScenesSpec{}, err
	}
	return spec, nil
}

func (s ScenesSpec) Validate() error {
	if len(s.Scenes) == 0 {
		return fmt.Errorf("prefabs: no scenes defined")
	}
	seen := make(map[string]bool, len(s.Scenes))
	for i, sc := range s.Scenes {
		if strings.TrimSpace(sc.ID) == "" {
			return fmt.Errorf("prefabs: scene %d has no id", i)
		}
		if seen[sc.ID] {
			return fmt.Errorf("prefabs: duplicate scene id %q", sc.ID)
		}
		seen[sc.ID] = true
		for j, e := range sc.Entities {
			if len(e.Components) == 0 {
				return fmt.Errorf("prefabs: scene %q entity %d (%s) has no components", sc.ID, j, e.Name)
			}
		}
	}
	return nil
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	Position []float64 `yaml:"position"`
	Scale    []float64 `yaml:"scale"`
	Rotation []float64 `yaml:"rotation"`
}

type MeshComponentSpec struct {
	Kind   string    `yaml:"kind"`
	Color  string    `yaml:"color"`
	Size   []float64 `yaml:"size"`
	Count  int       `yaml:"count"`
	Radius float64   `yaml:"radius"`
	Depth  float64   `yaml:"depth"`
	Seed   uint64    `yaml:"seed"`
}

type SpinComponentSpec struct {
	Axis  []float64 `yaml:"axis"`
	Speed float64   `yaml:"speed"`
}

type BobComponentSpec struct {
	Amplitude float64 `yaml:"amplitude"`
	Speed     float64 `yaml:"speed"`
	Phase     float64 `yaml:"phase"`
}

type LabelComponentSpec struct {
	Text   string  `yaml:"text"`
	Color  string  `yaml:"color"`
	Offset float64 `yaml:"offset"`
	Sub    string  `yaml:"sub"`
}

type InteractableComponentSpec struct {
	Item   string  `yaml:"item"`
	Radius float64 `yaml:"radius"`
}

type TerminalComponentSpec struct {
	Prompt   string `yaml:"prompt"`
	MaxChars int    `yaml:"max_chars"`
}

// ParseColor reads #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(hex[start:start+2], 16, 8)
		return uint8(v), err
	}

	var out color.NRGBA
	var err error
	if out.R, err = parse(0); err != nil {
		return color.NRGBA{}, err
	}
	if out.G, err = parse(2); err != nil {
		return color.NRGBA{}, err
	}
	if out.B, err = parse(4); err != nil {
		return color.NRGBA{}, err
	}
	out.A = 0xff
	if len(hex) == 8 {
		if out.A, err = parse(6); err != nil {
			return color.NRGBA{}, err
		}
	}
	return out, nil
}

// ColorOr parses s, falling back to def when s is empty or malformed.
func ColorOr(s string, def color.NRGBA) color.NRGBA {
	if s == "" {
		return def
	}
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}
