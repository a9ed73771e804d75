// Command preview cycles through the placeholder images generated from
// prefabs/images.yaml, scaled up, so colors and stripes can be checked
// without loading a level.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rewind/common"
	"github.com/milk9111/rewind/ecs/render"
	"github.com/milk9111/rewind/prefabs"
)

const size = 512

type frame struct {
	name string
	img  *ebiten.Image
}

type previewGame struct {
	frames      []frame
	current     int
	tick        int
	ticksPerFrm int
	auto        bool
}

func (g *previewGame) Update() error {
	if len(g.frames) <= 1 {
		return nil
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.step(1)
		g.auto = false
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.step(-1)
		g.auto = false
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.auto = !g.auto
	}
	if !g.auto {
		return nil
	}
	g.tick++
	if g.tick >= g.ticksPerFrm {
		g.tick = 0
		g.step(1)
	}
	return nil
}

func (g *previewGame) step(d int) {
	g.current = (g.current + d + len(g.frames)) % len(g.frames)
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(common.BackgroundColor)
	if len(g.frames) == 0 {
		ebitenutil.DebugPrint(screen, "no images")
		return
	}
	f := g.frames[g.current]
	fw := float64(f.img.Bounds().Dx())
	fh := float64(f.img.Bounds().Dy())
	scale := min((size-64)/fw, (size-64)/fh)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((size-fw*scale)/2, (size-fh*scale)/2)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(f.img, op)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s (%dx%d)  %d/%d", f.name, int(fw), int(fh), g.current+1, len(g.frames)))
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return size, size
}

func loadFrames() ([]frame, error) {
	spec, err := prefabs.LoadImagesSpec()
	if err != nil {
		return nil, err
	}
	frames := make([]frame, 0, len(spec.Images))
	for _, is := range spec.Images {
		frames = append(frames, frame{name: is.Name, img: ebiten.NewImageFromImage(render.Rasterize(is))})
	}
	return frames, nil
}

func main() {
	fps := flag.Int("fps", 1, "images per second in auto mode")
	flag.Parse()

	frames, err := loadFrames()
	if err != nil {
		log.Fatal(err)
	}
	ticks := 60
	if *fps > 0 {
		ticks = max(60 / *fps, 1)
	}
	g := &previewGame{frames: frames, ticksPerFrm: ticks, auto: true}
	ebiten.SetWindowSize(size, size)
	ebiten.SetWindowTitle("Image Preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
