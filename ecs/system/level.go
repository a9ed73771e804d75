package system

import "github.com/milk9111/rewind/ecs"

// LevelSystem ticks the level clock once per frame.
type LevelSystem struct {
	dt    float64
	level Level
}

func NewLevelSystem(dt float64, level Level) *LevelSystem {
	return &LevelSystem{dt: dt, level: level}
}

func (ls *LevelSystem) Update(w *ecs.World) {
	if ls == nil || ls.level == nil {
		return
	}
	ls.level.Advance(ls.dt)
}
