package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/rewind/prefabs"
)

// scriptCache compiles each trigger script once. Scripts see the globals
// door and door_count and the functions toggle_door(slot),
// is_door_open(slot) and win().
type scriptCache struct {
	owner    *TriggerSystem
	compiled map[string]*tengo.Compiled
}

func newScriptCache(owner *TriggerSystem) *scriptCache {
	return &scriptCache{owner: owner, compiled: map[string]*tengo.Compiled{}}
}

func (c *scriptCache) run(name string, door int) error {
	compiled, err := c.get(name)
	if err != nil {
		return err
	}
	if err := compiled.Set("door", door); err != nil {
		return err
	}
	if err := compiled.Set("door_count", c.owner.level.DoorCount()); err != nil {
		return err
	}
	if err := compiled.Run(); err != nil {
		return fmt.Errorf("run %q: %w", name, err)
	}
	return nil
}

func (c *scriptCache) get(name string) (*tengo.Compiled, error) {
	if compiled, ok := c.compiled[name]; ok {
		return compiled, nil
	}

	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}

	script := tengo.NewScript(src)
	_ = script.Add("door", 0)
	_ = script.Add("door_count", 0)
	for _, fn := range c.engine() {
		_ = script.Add(fn.Name, fn)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", name, err)
	}
	c.compiled[name] = compiled
	return compiled, nil
}

func (c *scriptCache) engine() []*tengo.UserFunction {
	return []*tengo.UserFunction{
		{Name: "toggle_door", Value: func(args ...tengo.Object) (tengo.Object, error) {
			slot, err := slotArg(args)
			if err != nil {
				return nil, err
			}
			c.owner.level.DoorInteraction(slot)
			return tengo.UndefinedValue, nil
		}},
		{Name: "is_door_open", Value: func(args ...tengo.Object) (tengo.Object, error) {
			slot, err := slotArg(args)
			if err != nil {
				return nil, err
			}
			if c.owner.level.IsDoorOpen(slot) {
				return tengo.TrueValue, nil
			}
			return tengo.FalseValue, nil
		}},
		{Name: "win", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 0 {
				return nil, tengo.ErrWrongNumArguments
			}
			c.owner.level.OnPlayerWin()
			return tengo.UndefinedValue, nil
		}},
	}
}

func slotArg(args []tengo.Object) (int, error) {
	if len(args) != 1 {
		return 0, tengo.ErrWrongNumArguments
	}
	slot, ok := tengo.ToInt(args[0])
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: "slot", Expected: "int", Found: args[0].TypeName()}
	}
	return slot, nil
}
