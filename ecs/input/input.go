package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rewind/common"
	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

// Action is a level command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionUndo
	ActionReset
	ActionReload
	ActionPause
)

func (a Action) String() string {
	switch a {
	case ActionUndo:
		return "undo"
	case ActionReset:
		return "reset"
	case ActionReload:
		return "reload"
	case ActionPause:
		return "pause"
	default:
		return "none"
	}
}

// Handler receives key presses that are not player movement.
type Handler interface {
	SetPlayerMoving()
	HandleAction(a Action)
}

// InputSystem reads the keyboard and first gamepad into every Input
// component and forwards level commands to its handler.
type InputSystem struct {
	handler Handler
	keys    []ebiten.Key
}

func NewInputSystem(handler Handler) *InputSystem {
	return &InputSystem{handler: handler}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	const stickDeadzone = 0.2

	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	jump := ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp)
	interact := inpututil.IsKeyJustPressed(ebiten.KeyE)

	moveX := 0.0
	if left {
		moveX -= 1
	}
	if right {
		moveX += 1
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			moveX = leftX
		}
		jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		interact = interact || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.MoveX = common.Clamp(moveX, -1, 1)
		input.Jump = jump
		input.JumpPressed = jumpPressed
		input.Interact = interact
	})

	if i.handler == nil {
		return
	}

	i.keys = inpututil.AppendJustPressedKeys(i.keys[:0])
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range i.keys {
		action := ActionFor(k, shift)
		if action == ActionNone {
			i.handler.SetPlayerMoving()
			continue
		}
		i.handler.HandleAction(action)
	}
}

// ActionFor maps a just pressed key onto its level command. Every other
// key is ActionNone and counts as the player moving.
func ActionFor(k ebiten.Key, shift bool) Action {
	switch k {
	case ebiten.KeyZ:
		return ActionUndo
	case ebiten.KeyR:
		if shift {
			return ActionReload
		}
		return ActionReset
	case ebiten.KeyEscape, ebiten.KeyP:
		return ActionPause
	default:
		return ActionNone
	}
}
