package render

import (
	"image"
	"sync"

	fb "github.com/gonutz/framebuffer"
)

// Transfer is an in-flight region write. The pixel buffer handed to
// DrawRegion must not be touched until Wait returns.
type Transfer interface {
	Wait() error
}

// Sink is the display: it accepts a rectangle of RGB565 pixels, row-major,
// len(pixels) == r.Dx()*r.Dy().
type Sink interface {
	Bounds() image.Rectangle
	DrawRegion(r image.Rectangle, pixels []RGB565) Transfer
}

type doneTransfer struct{ err error }

func (d doneTransfer) Wait() error { return d.err }

type chanTransfer struct {
	done chan struct{}
	err  error
}

func (c *chanTransfer) Wait() error {
	<-c.done
	return c.err
}

// MemorySink keeps the frame in an RGBA image. Transfers complete
// synchronously.
type MemorySink struct {
	mu      sync.Mutex
	img     *image.RGBA
	regions int
}

func NewMemorySink(width, height int) *MemorySink {
	return &MemorySink{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (m *MemorySink) Bounds() image.Rectangle { return m.img.Bounds() }

func (m *MemorySink) DrawRegion(r image.Rectangle, pixels []RGB565) Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	copyRegion(r, pixels, func(x, y int, c RGB565) { m.img.SetRGBA(x, y, c.RGBA()) }, m.img.Bounds())
	m.regions++
	return doneTransfer{}
}

// Snapshot returns a copy of the current frame.
func (m *MemorySink) Snapshot() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := image.NewRGBA(m.img.Bounds())
	copy(out.Pix, m.img.Pix)
	return out
}

// Regions counts DrawRegion calls.
func (m *MemorySink) Regions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regions
}

// FBSink writes to a Linux framebuffer device. Each region is copied on its
// own goroutine and signals completion by closing a channel.
type FBSink struct {
	dev *fb.Device
	mu  sync.Mutex
}

func OpenFBSink(path string) (*FBSink, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	return &FBSink{dev: dev}, nil
}

func (s *FBSink) Bounds() image.Rectangle { return s.dev.Bounds() }

func (s *FBSink) DrawRegion(r image.Rectangle, pixels []RGB565) Transfer {
	t := &chanTransfer{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		bounds := s.dev.Bounds()
		copyRegion(r, pixels, func(x, y int, c RGB565) {
			s.dev.Set(bounds.Min.X+x, bounds.Min.Y+y, c.RGBA())
		}, image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	}()
	return t
}

func (s *FBSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev.Close()
	return nil
}

func copyRegion(r image.Rectangle, pixels []RGB565, set func(x, y int, c RGB565), clip image.Rectangle) {
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !image.Pt(x, y).In(clip) {
				continue
			}
			i := (y-r.Min.Y)*w + (x - r.Min.X)
			if i >= len(pixels) {
				return
			}
			set(x, y, pixels[i])
		}
	}
}
