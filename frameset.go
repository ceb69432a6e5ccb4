package motionbg

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/motionbg/internal/cache"
	imagebuf "github.com/gogpu/motionbg/internal/image"
	"github.com/gogpu/motionbg/internal/parallel"
)

// FrameSetSteps is the number of target frames rendered per phase switch.
// Intermediate progress values are crossfaded between neighbouring frames.
const FrameSetSteps = 3

// ErrGeneratorClosed is returned by Generate after Close.
var ErrGeneratorClosed = errors.New("motionbg: frame generator closed")

// FrameSet holds the pre-rendered frames of one phase switch: From at
// progress 0 and To[k] at progress (k+1)/FrameSetSteps.
type FrameSet struct {
	Phase  int
	Colors Palette

	From *imagebuf.ImageBuf
	To   [FrameSetSteps]*imagebuf.ImageBuf

	refs   int
	cached bool
}

// Width returns the frame width in pixels.
func (fs *FrameSet) Width() int { return fs.From.Width() }

// Height returns the frame height in pixels.
func (fs *FrameSet) Height() int { return fs.From.Height() }

// Matches reports whether the set was generated for phase and colors.
func (fs *FrameSet) Matches(phase int, colors Palette) bool {
	return fs != nil && fs.Phase == WrapPhase(phase) && fs.Colors == colors
}

// Compose writes the frame at progress into dst by crossfading the two
// nearest pre-rendered frames. dst must have the set's dimensions.
func (fs *FrameSet) Compose(dst *Bitmap, progress float32) error {
	if dst == nil {
		return ErrInvalidBuffer
	}
	if dst.Width() != fs.Width() || dst.Height() != fs.Height() {
		return fmt.Errorf("%w: bitmap %dx%d, frame set %dx%d", imagebuf.ErrSizeMismatch,
			dst.Width(), dst.Height(), fs.Width(), fs.Height())
	}
	if _, err := dst.Lock(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBuffer, err)
	}
	defer dst.Unlock()

	progress = clamp01(progress)
	const part = float32(1) / FrameSetSteps

	i := int(progress / part)
	if i >= FrameSetSteps {
		return dst.buf.CopyFrom(fs.To[FrameSetSteps-1])
	}

	base := fs.From
	if i > 0 {
		base = fs.To[i-1]
	}
	alpha := (progress - float32(i)*part) / part
	return imagebuf.Crossfade(dst.buf, base, fs.To[i], alpha)
}

// GeneratorOption configures a FrameGenerator.
type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	renderer []RendererOption
	sets     int
}

// WithRendererOptions configures the Renderer of every worker.
func WithRendererOptions(opts ...RendererOption) GeneratorOption {
	return func(c *generatorConfig) {
		c.renderer = append(c.renderer, opts...)
	}
}

// WithSetCache keeps up to n generated sets so that Generate returns the
// same set for a repeated size, phase and palette instead of rendering it
// again. Cached sets stay valid after Release until they are evicted.
func WithSetCache(n int) GeneratorOption {
	return func(c *generatorConfig) {
		c.sets = n
	}
}

// setKey identifies a cached frame set.
type setKey struct {
	width, height int
	phase         int
	colors        Palette
}

// FrameGenerator renders frame sets on a pool of workers, each with its own
// Renderer and warp cache. Buffers of released sets are reused.
//
// FrameGenerator is safe for concurrent use.
type FrameGenerator struct {
	pool *parallel.WorkerPool[*Renderer]
	bufs *imagebuf.Pool

	// mu guards the refs and cached fields of every set.
	mu   sync.Mutex
	sets *cache.LRU[setKey, *FrameSet]
}

// NewFrameGenerator starts a generator with the given number of workers.
// workers <= 0 uses GOMAXPROCS.
func NewFrameGenerator(workers int, opts ...GeneratorOption) *FrameGenerator {
	var cfg generatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &FrameGenerator{
		pool: parallel.NewWorkerPool(workers, func() *Renderer { return NewRenderer(cfg.renderer...) }),
		bufs: imagebuf.NewPool(2 * (FrameSetSteps + 1)),
	}
	if cfg.sets > 0 {
		g.sets = cache.NewLRU(cfg.sets, func(_ setKey, fs *FrameSet) {
			fs.cached = false
			if fs.refs == 0 {
				g.recycle(fs)
			}
		})
	}
	return g
}

// Generate renders the frames of a switch to phase with the given colors.
// All frames use tightly packed rows. Every returned set must be passed to
// Release once it is no longer needed.
func (g *FrameGenerator) Generate(width, height, phase int, colors Palette) (*FrameSet, error) {
	if !g.pool.IsRunning() {
		return nil, ErrGeneratorClosed
	}
	if err := checkSize(width, height, width*4); err != nil {
		return nil, err
	}

	key := setKey{width: width, height: height, phase: WrapPhase(phase), colors: colors}
	if g.sets != nil {
		g.mu.Lock()
		fs, ok := g.sets.Get(key)
		if ok {
			fs.refs++
		}
		g.mu.Unlock()
		if ok {
			return fs, nil
		}
	}

	fs, err := g.render(key)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	fs.refs = 1
	if g.sets != nil {
		fs.cached = true
		g.sets.Put(key, fs)
	}
	g.mu.Unlock()

	Logger().Debug("motionbg: generated frame set",
		"phase", fs.Phase, "width", width, "height", height)
	return fs, nil
}

func (g *FrameGenerator) render(key setKey) (*FrameSet, error) {
	width, height := key.width, key.height

	fs := &FrameSet{Phase: key.phase, Colors: key.colors}
	targets := make([]*imagebuf.ImageBuf, 0, FrameSetSteps+1)
	for range FrameSetSteps + 1 {
		buf, err := g.bufs.Get(width, height, imagebuf.FormatBGRA8, width*4)
		if err != nil {
			for _, b := range targets {
				g.bufs.Put(b)
			}
			return nil, fmt.Errorf("motionbg: frame buffer: %w", err)
		}
		targets = append(targets, buf)
	}
	fs.From = targets[0]
	copy(fs.To[:], targets[1:])

	errs := make([]error, len(targets))
	work := make([]func(*Renderer), len(targets))
	for k, buf := range targets {
		f := Frame{
			Phase:    fs.Phase,
			Progress: float32(k) / FrameSetSteps,
			Colors:   fs.Colors,
		}
		work[k] = func(r *Renderer) {
			errs[k] = r.RenderBytes(buf.Data(), width, height, buf.Stride(), f)
		}
	}
	if err := g.pool.ExecuteAll(work); err != nil {
		g.recycle(fs)
		return nil, ErrGeneratorClosed
	}

	if err := errors.Join(errs...); err != nil {
		g.recycle(fs)
		return nil, err
	}
	return fs, nil
}

// Release drops a reference to fs. Uncached sets have their buffers returned
// for reuse and must not be used afterwards.
func (g *FrameGenerator) Release(fs *FrameSet) {
	if fs == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if fs.refs > 0 {
		fs.refs--
	}
	if fs.refs == 0 && !fs.cached {
		g.recycle(fs)
	}
}

// recycle returns the set's buffers to the pool and clears the set.
func (g *FrameGenerator) recycle(fs *FrameSet) {
	if fs.From == nil {
		return
	}
	g.bufs.Put(fs.From)
	for _, b := range fs.To {
		g.bufs.Put(b)
	}
	fs.From = nil
	fs.To = [FrameSetSteps]*imagebuf.ImageBuf{}
}

// CachedSets returns the number of sets held by the set cache.
func (g *FrameGenerator) CachedSets() int {
	if g.sets == nil {
		return 0
	}
	return g.sets.Len()
}

// CacheStats sums the warp cache statistics of all workers. It must not be
// called concurrently with Generate.
func (g *FrameGenerator) CacheStats() CacheStats {
	var total CacheStats
	g.pool.Each(func(r *Renderer) {
		s := r.CacheStats()
		total.Hits += s.Hits
		total.Rebuilds += s.Rebuilds
		total.Computed += s.Computed
	})
	return total
}

// Close stops the workers and empties the set cache. Generate fails
// afterwards; sets still referenced stay valid until released.
func (g *FrameGenerator) Close() {
	g.pool.Close()
	if g.sets != nil {
		g.mu.Lock()
		g.sets.Purge()
		g.mu.Unlock()
	}
}
