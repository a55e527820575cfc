package entity

import (
	"fmt"

	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
)

// NewInput creates the entity the input system writes each frame.
func NewInput(w *ecs.World) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("input: add component: %w", err)
	}
	return ent, nil
}
