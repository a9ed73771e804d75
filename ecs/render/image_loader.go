package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rewind/prefabs"
)

// LoadImages generates every image in images.yaml and registers it under
// its name, replacing images already registered.
func LoadImages() error {
	spec, err := prefabs.LoadImagesSpec()
	if err != nil {
		return fmt.Errorf("render: load images: %w", err)
	}
	for _, is := range spec.Images {
		if is.Name == "" {
			return fmt.Errorf("render: image without a name")
		}
		RegisterImage(is.Name, ebiten.NewImageFromImage(Rasterize(is)))
	}
	return nil
}

// Rasterize paints a flat placeholder image: a fill, optional horizontal
// stripes in the outline color and a one pixel outline.
func Rasterize(is prefabs.ImageSpec) *image.RGBA {
	w, h := is.Width, is.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	fill := color.Color(color.White)
	if is.Color != nil && is.Color.Color != nil {
		fill = is.Color.Color
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	if is.Outline == nil || is.Outline.Color == nil {
		return img
	}
	line := is.Outline.Color
	if is.Stripes > 0 {
		for y := is.Stripes; y < h; y += is.Stripes {
			for x := 0; x < w; x++ {
				img.Set(x, y, line)
			}
		}
	}
	for x := 0; x < w; x++ {
		img.Set(x, 0, line)
		img.Set(x, h-1, line)
	}
	for y := 0; y < h; y++ {
		img.Set(0, y, line)
		img.Set(w-1, y, line)
	}
	return img
}
