// Package color provides the color types and HSB conversions used by the
// palette helpers.
package color

// ColorU8 represents a color with uint8 components in [0,255].
type ColorU8 struct {
	R, G, B, A uint8
}

// HSB is a hue/saturation/brightness triple, all components in [0,1].
// Brightness is the HSV "value" component.
type HSB struct {
	H, S, B float32
}
