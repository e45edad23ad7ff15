package morph

import (
	"image"
	"sync"
)

// scratchPool holds the morph call's reusable per-call buffers (warped
// target, rescaled target), keyed by exact (width,height) rather than a
// handful of fixed sizes, since the morph engine's frame size is
// caller-determined rather than fixed at a known resolution.
type scratchPool struct {
	mu    sync.Mutex
	rgba  map[[2]int]*sync.Pool
	gray  map[[2]int]*sync.Pool
}

func newScratchPool() *scratchPool {
	return &scratchPool{
		rgba: make(map[[2]int]*sync.Pool),
		gray: make(map[[2]int]*sync.Pool),
	}
}

func (p *scratchPool) getRGBA(w, h int) *image.RGBA {
	key := [2]int{w, h}

	p.mu.Lock()
	pool, ok := p.rgba[key]
	if !ok {
		pool = &sync.Pool{New: func() interface{} {
			return image.NewRGBA(image.Rect(0, 0, w, h))
		}}
		p.rgba[key] = pool
	}
	p.mu.Unlock()

	img := pool.Get().(*image.RGBA)
	clearRGBA(img)
	return img
}

func (p *scratchPool) putRGBA(w, h int, img *image.RGBA) {
	key := [2]int{w, h}
	p.mu.Lock()
	pool := p.rgba[key]
	p.mu.Unlock()
	if pool != nil {
		pool.Put(img)
	}
}

func (p *scratchPool) getGray(w, h int) *image.Gray {
	key := [2]int{w, h}

	p.mu.Lock()
	pool, ok := p.gray[key]
	if !ok {
		pool = &sync.Pool{New: func() interface{} {
			return image.NewGray(image.Rect(0, 0, w, h))
		}}
		p.gray[key] = pool
	}
	p.mu.Unlock()

	img := pool.Get().(*image.Gray)
	clearGray(img)
	return img
}

func (p *scratchPool) putGray(w, h int, img *image.Gray) {
	key := [2]int{w, h}
	p.mu.Lock()
	pool := p.gray[key]
	p.mu.Unlock()
	if pool != nil {
		pool.Put(img)
	}
}

func clearRGBA(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}

func clearGray(img *image.Gray) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}
