// Package script runs the per-scene tengo hooks. A scene script assigns any
// of on_enter, on_exit, on_interact, on_continue and on_submit; hooks it
// leaves alone keep their default behaviour.
package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/logging"
	"github.com/milk9111/neonfolio/prefabs"
	"go.uber.org/zap"
)

type Hook string

const (
	HookEnter    Hook = "enter"
	HookExit     Hook = "exit"
	HookInteract Hook = "interact"
	HookContinue Hook = "continue"
	HookSubmit   Hook = "submit"
)

// Host is what a scene script is allowed to touch.
type Host interface {
	AddExperience(amount int)
	UnlockAchievement(id, name string)
	Popup(amount int, label string)
	Banner(text string)
	Advance()
	Select(index int) bool
	CameraTo(position, lookAt common.Vec3, seconds float64)
	Experience() int
	Level() int
	Unlocked(id string) bool
}

const hookPrelude = `
on_enter := func(engine) {}
on_exit := func(engine) {}
on_interact := func(engine, item) {}
on_continue := func(engine) { engine.advance() }
on_submit := func(engine, text) {}
`

const hookDispatchScript = `
if __hook == "enter" {
	on_enter(__engine)
} else if __hook == "exit" {
	on_exit(__engine)
} else if __hook == "interact" {
	on_interact(__engine, __arg)
} else if __hook == "continue" {
	on_continue(__engine)
} else if __hook == "submit" {
	on_submit(__engine, __arg)
}
`

// Runtime is one compiled scene script plus the state map it keeps between
// hook calls. A nil Runtime behaves like an empty script.
type Runtime struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	logger   *zap.Logger
}

// Load compiles the named script from the prefab scripts directory.
func Load(name string, logger *zap.Logger) (*Runtime, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(name, src, logger)
}

func Compile(name string, src []byte, logger *zap.Logger) (*Runtime, error) {
	logger = logging.OrNop(logger)

	full := hookPrelude + "\n" + string(src) + "\n" + hookDispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__hook", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__arg", "")
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	return &Runtime{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		logger:   logger.With(zap.String("script", name)),
	}, nil
}

func (rt *Runtime) Name() string {
	if rt == nil {
		return ""
	}
	return rt.name
}

func (rt *Runtime) Enter(h Host) error                 { return rt.run(HookEnter, h, "") }
func (rt *Runtime) Exit(h Host) error                  { return rt.run(HookExit, h, "") }
func (rt *Runtime) Interact(h Host, item string) error { return rt.run(HookInteract, h, item) }
func (rt *Runtime) Continue(h Host) error              { return rt.run(HookContinue, h, "") }
func (rt *Runtime) Submit(h Host, text string) error   { return rt.run(HookSubmit, h, text) }

// State returns a plain copy of the script's persistent state map.
func (rt *Runtime) State() map[string]any {
	if rt == nil {
		return map[string]any{}
	}
	out, _ := objectToAny(rt.state).(map[string]any)
	return out
}

func (rt *Runtime) run(hook Hook, h Host, arg string) error {
	if h == nil {
		return fmt.Errorf("script: nil host")
	}
	if rt == nil || rt.compiled == nil {
		if hook == HookContinue {
			h.Advance()
		}
		return nil
	}

	if err := rt.compiled.Set("__hook", string(hook)); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", buildEngine(h, rt.logger)); err != nil {
		return err
	}
	if err := rt.compiled.Set("__arg", arg); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	if err := rt.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s on_%s: %w", rt.name, hook, err)
	}
	return nil
}

func buildEngine(h Host, logger *zap.Logger) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["add_xp"] = &tengo.UserFunction{Name: "add_xp", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		n, ok := objectAsInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		h.AddExperience(n)
		return tengo.TrueValue, nil
	}}

	values["unlock"] = &tengo.UserFunction{Name: "unlock", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		id := strings.TrimSpace(objectAsString(args[0]))
		if id == "" {
			return tengo.FalseValue, nil
		}
		name := id
		if len(args) > 1 {
			name = objectAsString(args[1])
		}
		h.UnlockAchievement(id, name)
		return tengo.TrueValue, nil
	}}

	values["popup"] = &tengo.UserFunction{Name: "popup", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		n, ok := objectAsInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		label := ""
		if len(args) > 1 {
			label = objectAsString(args[1])
		}
		h.Popup(n, label)
		return tengo.TrueValue, nil
	}}

	values["banner"] = &tengo.UserFunction{Name: "banner", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		h.Banner(objectAsString(args[0]))
		return tengo.TrueValue, nil
	}}

	values["advance"] = &tengo.UserFunction{Name: "advance", Value: func(args ...tengo.Object) (tengo.Object, error) {
		h.Advance()
		return tengo.TrueValue, nil
	}}

	values["select"] = &tengo.UserFunction{Name: "select", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		i, ok := objectAsInt(args[0])
		if !ok || !h.Select(i) {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["camera_to"] = &tengo.UserFunction{Name: "camera_to", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		pos, ok := objectAsVec3(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		look, ok := objectAsVec3(args[1])
		if !ok {
			return tengo.FalseValue, nil
		}
		seconds := 0.0
		if len(args) > 2 {
			seconds, _ = objectAsFloat(args[2])
		}
		h.CameraTo(pos, look, seconds)
		return tengo.TrueValue, nil
	}}

	values["xp"] = &tengo.UserFunction{Name: "xp", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(h.Experience())}, nil
	}}

	values["level"] = &tengo.UserFunction{Name: "level", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(h.Level())}, nil
	}}

	values["unlocked"] = &tengo.UserFunction{Name: "unlocked", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 || !h.Unlocked(objectAsString(args[0])) {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		logger.Info(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
