package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

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

// ImageSpec describes a flat placeholder image generated at startup.
type ImageSpec struct {
	Name    string     `yaml:"name"`
	Width   int        `yaml:"width"`
	Height  int        `yaml:"height"`
	Color   *YAMLColor `yaml:"color"`
	Outline *YAMLColor `yaml:"outline"`
	// Stripes draws horizontal bands every N pixels, 0 for none.
	Stripes int `yaml:"stripes"`
}

type ImagesSpec struct {
	Images []ImageSpec `yaml:"images"`
}

func LoadImagesSpec() (ImagesSpec, error) {
	return LoadSpec[ImagesSpec]("images.yaml")
}

type MaterialSpec struct {
	Name       string  `yaml:"name"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
}

type MaterialsSpec struct {
	Materials []MaterialSpec `yaml:"materials"`
}

func LoadMaterialsSpec() (MaterialsSpec, error) {
	return LoadSpec[MaterialsSpec]("materials.yaml")
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
