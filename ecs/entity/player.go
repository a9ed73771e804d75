package entity

import (
	"fmt"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/spawn"
)

func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y, 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}

// PrefabTemplate builds spawned entities from a prefab file.
func PrefabTemplate(prefabPath string) spawn.Template {
	return spawn.TemplateFunc(func(w *ecs.World, e ecs.Entity) error {
		return BuildInto(w, e, prefabPath)
	})
}

// DeadBodyTemplate is the template the level spawns where the player died.
func DeadBodyTemplate() spawn.Template {
	return PrefabTemplate("dead_body.yaml")
}
