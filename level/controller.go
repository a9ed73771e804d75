package level

import (
	"errors"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/history"
	"github.com/milk9111/rewind/spawn"
	"go.uber.org/zap"
)

type State int

const (
	// StateIdle waits for the player to move before the clock starts.
	StateIdle State = iota
	StateRunning
	// StateWon is terminal until the level is torn down.
	StateWon
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWon:
		return "won"
	default:
		return "idle"
	}
}

type ControllerConfig struct {
	Player     ecs.Entity
	SpawnPoint ecs.Entity
	Doors      *history.DoorTracker
	Positions  *history.PositionHistory
	Objects    *spawn.Manager
	StageTime  float64
	Logger     *zap.Logger
}

// Controller drives one level: the countdown, deaths, respawns, undo and
// reset. It is the only caller that sequences the history components, so a
// death always advances all of them together.
type Controller struct {
	world      *ecs.World
	player     ecs.Entity
	spawnPoint ecs.Entity
	doors      *history.DoorTracker
	positions  *history.PositionHistory
	objects    *spawn.Manager
	clock      *Clock
	timeScale  float64
	won        bool
	logger     *zap.Logger
}

func NewController(w *ecs.World, cfg ControllerConfig) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		world:      w,
		player:     cfg.Player,
		spawnPoint: cfg.SpawnPoint,
		doors:      cfg.Doors,
		positions:  cfg.Positions,
		objects:    cfg.Objects,
		clock:      NewClock(cfg.StageTime),
		timeScale:  1,
		logger:     logger,
	}
}

func (c *Controller) State() State {
	switch {
	case c.won:
		return StateWon
	case c.clock.Started():
		return StateRunning
	default:
		return StateIdle
	}
}

func (c *Controller) Clock() *Clock {
	return c.clock
}

// TimeScale is 0 while paused and 1 otherwise. Systems multiply their
// frame delta by it.
func (c *Controller) TimeScale() float64 {
	return c.timeScale
}

func (c *Controller) Paused() bool {
	return c.clock.Paused()
}

func (c *Controller) Won() bool {
	return c.won
}

func (c *Controller) Player() ecs.Entity {
	return c.player
}

// SetPlayerMoving starts the clock.
func (c *Controller) SetPlayerMoving() {
	if c.won {
		return
	}
	c.clock.Start()
}

// Advance ticks the clock by dt seconds. When the stage time runs out the
// player dies, respawns and the clock waits for movement again. It reports
// whether a death happened.
func (c *Controller) Advance(dt float64) bool {
	if c.won || !c.world.IsAlive(c.player) {
		return false
	}
	if !c.clock.Advance(dt) {
		return false
	}
	c.logger.Debug("level: stage time expired")
	c.OnPlayerDeath()
	c.RespawnPlayer()
	return true
}

// OnPlayerDeath records one history step across every component. Positions
// are saved before the player is deactivated so the dead body lands where
// the player stood.
func (c *Controller) OnPlayerDeath() {
	if c.won {
		return
	}
	if !c.world.IsAlive(c.player) {
		c.logger.Debug("level: death ignored, no player")
		return
	}
	if c.positions != nil {
		if err := c.positions.SaveLog(); err != nil {
			c.logger.Warn("level: save positions", zap.Error(err))
		}
	}
	if err := ecs.SetActive(c.world, c.player, false); err != nil {
		c.logger.Warn("level: deactivate player", zap.Error(err))
	}
	ecs.SyncTransforms(c.world)
	if c.doors != nil {
		if err := c.doors.SaveState(); err != nil {
			c.logger.Debug("level: save doors", zap.Error(err))
		}
	}
	c.emit(EventDied, -1)
}

// RespawnPlayer moves the player to the spawn point and reactivates it. A
// dead body lying on the spawn point lifts the player on top of it.
func (c *Controller) RespawnPlayer() {
	if !c.world.IsAlive(c.player) || !c.world.IsAlive(c.spawnPoint) {
		return
	}
	x, y, ok := ecs.WorldPosition(c.world, c.spawnPoint)
	if !ok {
		c.logger.Warn("level: spawn point has no transform")
		return
	}
	y = c.clearOfDeadBodies(x, y)

	if err := ecs.SetWorldPosition(c.world, c.player, x, y); err != nil {
		c.logger.Warn("level: move player", zap.Error(err))
		return
	}
	if err := ecs.SetActive(c.world, c.player, true); err != nil {
		c.logger.Warn("level: activate player", zap.Error(err))
	}
	ecs.SyncTransforms(c.world)
	c.emit(EventRespawned, -1)
}

func (c *Controller) clearOfDeadBodies(x, y float64) float64 {
	if c.objects == nil {
		return y
	}
	half := 0.0
	if bb, ok := spawn.Bounds(c.world, c.player); ok {
		half = (bb.T - bb.B) / 2
	}
	for range c.objects.DeadBodyCount() {
		if !c.objects.IsCollidingWithDeadBodies(x, y, c.player) {
			break
		}
		_, bb, _ := c.objects.DeadBodyAt(x, y)
		y = bb.B - half - 1
	}
	return y
}

// ResetLevel returns the level to its starting state: doors back to the
// baseline and closed, dead bodies and history gone, props back where they
// started, clock stopped and the player at the spawn point.
func (c *Controller) ResetLevel() {
	if c.won {
		return
	}
	if c.doors != nil {
		if err := c.doors.Reset(); err != nil {
			c.logger.Warn("level: reset doors", zap.Error(err))
		}
	}
	if c.positions != nil {
		c.positions.ClearDeadBodies()
		c.positions.ClearHistory()
		if err := c.positions.RestoreBaseline(); err != nil {
			c.logger.Warn("level: restore props", zap.Error(err))
		}
	}
	if c.objects != nil {
		c.objects.ClearDeadBodies()
	}
	c.clock.Reset()
	c.resume()
	c.RespawnPlayer()
	c.emit(EventReset, -1)
}

// UndoLastAction rolls back one death across every history, then always
// respawns the player and stops the clock, even when nothing was rolled
// back.
func (c *Controller) UndoLastAction() {
	if c.won {
		return
	}
	if c.positions != nil {
		c.logUndo("positions", c.positions.Undo())
	}
	if c.doors != nil {
		c.logUndo("doors", c.doors.UndoState())
	}
	c.RespawnPlayer()
	c.clock.Reset()
	c.emit(EventUndo, -1)
}

func (c *Controller) logUndo(what string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, history.ErrHistoryDesync):
		c.logger.Warn("level: undo "+what, zap.Error(err))
	default:
		c.logger.Debug("level: undo "+what, zap.Error(err))
	}
}

// PauseGame stops the clock and the simulation.
func (c *Controller) PauseGame() {
	if c.clock.Paused() {
		return
	}
	c.clock.SetPaused(true)
	c.timeScale = 0
	c.emit(EventPaused, -1)
}

// ResumeGame restarts the simulation. A won level stays paused.
func (c *Controller) ResumeGame() {
	if c.won || !c.clock.Paused() {
		return
	}
	c.resume()
	c.emit(EventResumed, -1)
}

func (c *Controller) resume() {
	c.clock.SetPaused(false)
	c.timeScale = 1
}

// OnPlayerWin pauses the level for good and notifies the presentation
// layer.
func (c *Controller) OnPlayerWin() {
	if c.won {
		return
	}
	c.PauseGame()
	c.won = true
	c.logger.Info("level: won", zap.Float64("remaining", c.clock.Remaining()), zap.Int("dead_bodies", c.DeadBodyCount()))
	c.emit(EventWon, -1)
}

// DoorInteraction toggles one door. Invalid slots change nothing.
func (c *Controller) DoorInteraction(slot int) {
	if c.won || c.doors == nil {
		return
	}
	if err := c.doors.ToggleDoor(slot); err != nil {
		c.logger.Debug("level: door interaction", zap.Int("slot", slot), zap.Error(err))
		return
	}
	c.emit(EventDoorToggled, slot)
}

func (c *Controller) IsDoorOpen(slot int) bool {
	if c.doors == nil {
		return false
	}
	return c.doors.IsOpen(slot)
}

func (c *Controller) RemainingTime() float64 {
	return c.clock.Remaining()
}

func (c *Controller) DeadBodyCount() int {
	if c.objects != nil {
		return c.objects.DeadBodyCount()
	}
	if c.positions != nil {
		return c.positions.ObjectCount()
	}
	return 0
}

func (c *Controller) DoorCount() int {
	if c.doors == nil {
		return 0
	}
	return len(c.doors.Doors())
}
