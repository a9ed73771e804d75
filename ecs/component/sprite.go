package component

// Sprite names the image drawn for an entity. Images are resolved by the
// render package, so gameplay code only swaps keys.
type Sprite struct {
	Image      string
	Width      float64
	Height     float64
	FacingLeft bool
}

var SpriteComponent = NewComponent[Sprite]()
