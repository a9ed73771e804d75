package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rewind/common"
	"github.com/milk9111/rewind/config"
	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/entity"
	"github.com/milk9111/rewind/ecs/input"
	"github.com/milk9111/rewind/ecs/render"
	"github.com/milk9111/rewind/ecs/system"
	"github.com/milk9111/rewind/history"
	"github.com/milk9111/rewind/level"
	"github.com/milk9111/rewind/levels"
	"github.com/milk9111/rewind/prefabs"
	"go.uber.org/zap"
)

var errQuit = errors.New("quit")

type Game struct {
	cfg    *config.Config
	logger *zap.Logger
	dt     float64

	levelName string
	world     *ecs.World
	ctx       *level.Context
	renderer  *render.RenderSystem

	pauseUI *ebitenui.UI
	winUI   *ebitenui.UI

	watcher       *prefabs.Watcher
	reloadPending bool
	nextLevel     string
	quit          bool
}

func NewGame(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	tick := cfg.Game.TickRate
	if tick <= 0 {
		tick = ebiten.DefaultTPS
	}
	g := &Game{
		cfg:      cfg,
		logger:   logger,
		dt:       1.0 / float64(tick),
		renderer: render.NewRenderSystem(),
	}

	if err := render.LoadImages(); err != nil {
		return nil, err
	}
	if err := g.loadLevel(cfg.Game.Level); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)
	g.winUI = NewWinUI(g)

	if cfg.Game.Debug {
		w, err := prefabs.NewWatcher(prefabs.DefaultWatchDirs)
		if err != nil {
			logger.Warn("game: hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// loadLevel builds a fresh world for the named level and swaps it in. The
// current level keeps running if the new one fails to load.
func (g *Game) loadLevel(name string) error {
	lvl, err := levels.Load(name)
	if err != nil {
		return fmt.Errorf("load level %q: %w", name, err)
	}

	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld())
	ents, err := entity.LoadLevelToWorld(w, lvl)
	if err != nil {
		return err
	}

	stageTime := g.cfg.Game.StageTime
	if lvl.StageTime > 0 {
		stageTime = lvl.StageTime
	}
	ctx := level.New(w, level.Setup{
		Player:      ents.Player,
		SpawnPoint:  ents.SpawnPoint,
		PropsRoot:   ents.Props,
		ObjectsRoot: ents.Objects,
		DeadBody:    entity.DeadBodyTemplate(),
		DoorSprites: history.DoorSprites{Open: entity.OpenDoorImage, Closed: entity.ClosedDoorImage},
		StageTime:   stageTime,
	}, g.logger.Named("level"))

	ctrl := ctx.Controller
	w.AddSystem(input.NewInputSystem(g))
	w.AddSystem(system.NewPlayerControllerSystem(ctrl))
	w.AddSystem(system.NewPhysicsSystem(g.dt, ctrl))
	w.AddSystem(system.NewTriggerSystem(ctrl, g.logger.Named("trigger")))
	w.AddSystem(system.NewLevelSystem(g.dt, ctrl))
	w.AddSystem(&levelEventSystem{logger: g.logger.Named("level")})

	if g.ctx != nil {
		g.ctx.Close()
	}
	g.levelName = levelName(name)
	g.world = w
	g.ctx = ctx

	g.logger.Info("game: level loaded",
		zap.String("level", name),
		zap.String("title", lvl.Name),
		zap.Float64("stage_time", stageTime),
	)
	return nil
}

// reloadLevel rebuilds the current level from disk, dropping its history.
func (g *Game) reloadLevel() error {
	entity.ResetMaterials()
	if err := render.LoadImages(); err != nil {
		return err
	}
	return g.loadLevel(g.levelName)
}

func (g *Game) SetPlayerMoving() {
	g.ctx.Controller.SetPlayerMoving()
}

func (g *Game) HandleAction(a input.Action) {
	ctrl := g.ctx.Controller
	g.logger.Debug("game: action", zap.Stringer("action", a))
	switch a {
	case input.ActionUndo:
		ctrl.UndoLastAction()
	case input.ActionReset:
		ctrl.ResetLevel()
	case input.ActionReload:
		g.reloadPending = true
	case input.ActionPause:
		if ctrl.Paused() {
			ctrl.ResumeGame()
		} else {
			ctrl.PauseGame()
		}
	}
}

// NextLevel returns the level after the current one in embedded order, or
// "" for the last level.
func (g *Game) NextLevel() string {
	names := levels.Names()
	i := slices.Index(names, g.levelName)
	if i < 0 || i+1 >= len(names) {
		return ""
	}
	return names[i+1]
}

func (g *Game) Update() error {
	if g.quit {
		return errQuit
	}
	g.drainWatcher()

	if g.nextLevel != "" {
		name := g.nextLevel
		g.nextLevel = ""
		if err := g.loadLevel(name); err != nil {
			g.logger.Error("game: load next level", zap.String("level", name), zap.Error(err))
		}
	}
	if g.reloadPending {
		g.reloadPending = false
		if err := g.reloadLevel(); err != nil {
			g.logger.Error("game: reload level", zap.Error(err))
		}
	}

	ctrl := g.ctx.Controller
	if ctrl.Won() {
		g.winUI.Update()
		return nil
	}
	if ctrl.Paused() {
		g.pauseUI.Update()
	}
	g.world.Update()
	return nil
}

// levelName turns a level path or file name into the basename levels.Load
// and NextLevel use.
func levelName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".yaml")
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case batch, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			for _, c := range batch {
				name := filepath.ToSlash(c.Path)
				if c.Kind == prefabs.ChangeLevel && levelName(c.Path) != g.levelName {
					g.logger.Debug("game: other level changed", zap.String("file", name))
					continue
				}
				g.logger.Info("game: file changed", zap.String("file", name), zap.Stringer("kind", c.Kind))
				g.reloadPending = true
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("game: watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(common.BackgroundColor)
	g.renderer.Draw(g.world, screen)
	if g.cfg.Game.Debug {
		render.DrawColliderDebug(g.world, screen, system.TriggerArea)
	}

	ctrl := g.ctx.Controller
	render.DrawHUD(screen, ctrl, ctrl.Clock().Format())

	switch {
	case ctrl.Won():
		g.winUI.Draw(screen)
	case ctrl.Paused():
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close releases the level and the file watcher.
func (g *Game) Close() error {
	g.ctx.Close()
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}

// levelEventSystem logs level notifications before the world drops them.
type levelEventSystem struct {
	logger *zap.Logger
}

func (s *levelEventSystem) Update(w *ecs.World) {
	for _, ev := range level.Events(w) {
		fields := []zap.Field{zap.Stringer("event", ev.Kind)}
		if ev.Kind == level.EventDoorToggled {
			fields = append(fields, zap.Int("slot", ev.Slot))
		}
		s.logger.Debug("level: event", fields...)
	}
}
