package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
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

type PlayerComponentSpec struct {
	MoveSpeed float64 `yaml:"move_speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image      string  `yaml:"image"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	FacingLeft bool    `yaml:"facing_left"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ColliderComponentSpec struct {
	Shape     string        `yaml:"shape"`
	Width     float64       `yaml:"width"`
	Height    float64       `yaml:"height"`
	Radius    float64       `yaml:"radius"`
	OffsetX   float64       `yaml:"offset_x"`
	OffsetY   float64       `yaml:"offset_y"`
	Direction string        `yaml:"direction"`
	Paths     [][]PointSpec `yaml:"paths"`
	Material  string        `yaml:"material"`
	Sensor    bool          `yaml:"sensor"`
	Disabled  bool          `yaml:"disabled"`
}

type RigidBodyComponentSpec struct {
	Type            string   `yaml:"type"`
	Mass            float64  `yaml:"mass"`
	GravityScale    *float64 `yaml:"gravity_scale"`
	FreezePositionX bool     `yaml:"freeze_position_x"`
	FreezePositionY bool     `yaml:"freeze_position_y"`
	FreezeRotation  bool     `yaml:"freeze_rotation"`
}

type DoorComponentSpec struct {
	Slot int `yaml:"slot"`
}

type TriggerComponentSpec struct {
	Kind   string  `yaml:"kind"`
	Door   int     `yaml:"door"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Script string  `yaml:"script"`
}

type ContainerComponentSpec struct {
	Name string `yaml:"name"`
}
