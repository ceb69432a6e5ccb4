package motionbg

import "testing"

// BenchmarkRender benchmarks full frame renders at wallpaper bitmap sizes.
func BenchmarkRender(b *testing.B) {
	sizes := []struct {
		name   string
		width  int
		height int
	}{
		{"60x80", 60, 80},
		{"80x80", 80, 80},
		{"240x320", 240, 320},
		{"1080x1920", 1080, 1920},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			bm, _ := NewBitmap(size.width, size.height)
			r := NewRenderer()
			f := Frame{Phase: 3, Progress: 0.5, Colors: DefaultPalette}
			b.ReportAllocs()
			b.SetBytes(int64(size.width * size.height * 4))
			for b.Loop() {
				_ = r.Render(bm, true, f)
			}
		})
	}
}

// BenchmarkRender_ColdCache measures the swirl warp cost by resetting the
// cache before every frame.
func BenchmarkRender_ColdCache(b *testing.B) {
	bm, _ := NewBitmap(60, 80)
	r := NewRenderer()
	f := Frame{Phase: 3, Progress: 0.5, Colors: DefaultPalette}
	b.ReportAllocs()
	for b.Loop() {
		r.ResetCache()
		_ = r.Render(bm, true, f)
	}
}

func BenchmarkFrameGenerator_Generate(b *testing.B) {
	g := NewFrameGenerator(0)
	defer g.Close()

	b.ReportAllocs()
	phase := 0
	for b.Loop() {
		fs, err := g.Generate(60, 80, phase, DefaultPalette)
		if err != nil {
			b.Fatal(err)
		}
		g.Release(fs)
		phase = NextPhase(phase)
	}
}

func BenchmarkFrameSet_Compose(b *testing.B) {
	g := NewFrameGenerator(0)
	defer g.Close()

	fs, err := g.Generate(60, 80, 0, DefaultPalette)
	if err != nil {
		b.Fatal(err)
	}
	dst, _ := NewBitmap(60, 80)
	b.ReportAllocs()
	p := float32(0)
	for b.Loop() {
		_ = fs.Compose(dst, p)
		p += 0.01
		if p > 1 {
			p = 0
		}
	}
}
