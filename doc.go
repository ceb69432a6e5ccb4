// Package motionbg renders animated multi-point gradient wallpapers.
//
// # Overview
//
// Up to four colored stops sit on a ring of eight anchor positions. Each
// pixel is colored by inverse-distance weighting of the stops, sampled
// through a swirl warp that twists the image around its center. Moving the
// stops one anchor along the ring (a phase switch) animates the background.
//
// # Quick Start
//
//	import "github.com/gogpu/motionbg"
//
//	bm, _ := motionbg.NewBitmap(60, 80)
//	r := motionbg.NewRenderer()
//	err := r.Render(bm, true, motionbg.Frame{
//	    Phase:    0,
//	    Progress: 1,
//	    Colors:   motionbg.DefaultPalette,
//	})
//	_ = bm.SavePNG("wallpaper.png")
//
// # Pixel Format
//
// Buffers are BGRA8888: pixel (x, y) occupies 4 bytes at y*stride+x*4 in
// B, G, R, A order. Rendered pixels are always opaque. Row padding beyond
// width*4 is never written.
//
// # Phases
//
// Phase p places stop i at anchor (p+2i) mod 8, mirrored vertically.
// Frame.Progress moves the stops from the positions of phase p+1 (progress 0)
// to those of phase p (progress 1), so forward animation decrements the phase.
// Any integer phase is accepted and wrapped.
//
// # Animation
//
// Animator advances switches over time with a cubic-bezier easing.
// With a FrameGenerator it pre-renders three frames per switch on a worker
// pool and crossfades between them instead of rendering every frame.
//
// # Caching
//
// Every Renderer keeps the swirl coordinates of the last resolution in a
// WarpCache. The cache is keyed by pixel count alone.
//
// A FrameGenerator created WithSetCache also keeps recent frame sets, so
// returning to a phase composes from frames already rendered.
//
// # Logging
//
// motionbg is silent by default. See SetLogger.
package motionbg
