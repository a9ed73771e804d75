package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// HUDSource is what the heads-up display reports.
type HUDSource interface {
	RemainingTime() float64
	DeadBodyCount() int
	Paused() bool
}

var hudFace = text.NewGoXFace(basicfont.Face7x13)

const hudHint = "Z undo   R reset   Esc pause"

// DrawHUD prints the stage clock and the dead body count in the top left
// corner, and the key hint in the bottom left.
func DrawHUD(screen *ebiten.Image, src HUDSource, clock string) {
	if screen == nil || src == nil {
		return
	}
	drawText(screen, fmt.Sprintf("TIME %s", clock), 16, 12, color.White)
	drawText(screen, fmt.Sprintf("BODIES %d", src.DeadBodyCount()), 16, 30, color.White)
	if src.Paused() {
		return
	}
	h := screen.Bounds().Dy()
	drawText(screen, hudHint, 16, float64(h-24), color.Gray{Y: 0xb0})
}

func drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, hudFace, op)
}
