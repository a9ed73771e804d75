package common

import "image/color"

const (
	BaseWidth  = 1280
	BaseHeight = 720

	TileSize = 32

	// Gravity is in pixels per second squared, screen-down.
	Gravity = 1800.0

	// DefaultFriction applies to colliders without a material.
	DefaultFriction = 0.8
)

var BackgroundColor = color.RGBA{R: 0x1b, G: 0x26, B: 0x3b, A: 0xff}
