package scene

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPainter struct {
	paints int
	last   *Object
	err    error
}

func (p *countingPainter) Paint(root *Object) error {
	p.paints++
	p.last = root
	return p.err
}

func TestTimerFiresOncePerPeriod(t *testing.T) {
	s := New(nil, nil)
	fired := 0
	s.NewTimer(100*time.Millisecond, func(*Timer) { fired++ })

	s.IncTick(99 * time.Millisecond)
	require.NoError(t, s.Handle())
	assert.Equal(t, 0, fired)

	s.IncTick(1 * time.Millisecond)
	require.NoError(t, s.Handle())
	assert.Equal(t, 1, fired)

	require.NoError(t, s.Handle())
	assert.Equal(t, 1, fired, "no time passed")

	// A long stall fires once, not once per missed period.
	s.IncTick(time.Second)
	require.NoError(t, s.Handle())
	assert.Equal(t, 2, fired)
}

func TestSetPeriodInsideCallback(t *testing.T) {
	s := New(nil, nil)
	var runs []time.Duration
	s.NewTimer(3*time.Second, func(tm *Timer) {
		runs = append(runs, s.Tick())
		tm.SetPeriod(6 * time.Second)
	})

	for i := 0; i < 160; i++ {
		s.IncTick(100 * time.Millisecond)
		require.NoError(t, s.Handle())
	}
	assert.Equal(t, []time.Duration{3 * time.Second, 9 * time.Second, 15 * time.Second}, runs)
}

func TestLoadRepaintsOnce(t *testing.T) {
	p := &countingPainter{}
	s := New(p, nil)

	require.NoError(t, s.Handle())
	assert.Equal(t, 0, p.paints)

	root := NewScreen(color.RGBA{A: 255})
	s.Load(root)
	require.NoError(t, s.Handle())
	require.NoError(t, s.Handle())
	assert.Equal(t, 1, p.paints)
	assert.Same(t, root, p.last)
}

func TestTimerCallbackLoadIsPaintedSameHandle(t *testing.T) {
	p := &countingPainter{}
	s := New(p, nil)
	next := NewScreen(color.RGBA{R: 1, A: 255})
	s.NewTimer(10*time.Millisecond, func(*Timer) { s.Load(next) })

	s.IncTick(10 * time.Millisecond)
	require.NoError(t, s.Handle())
	assert.Same(t, next, p.last)
}

func TestPaintErrorIsReturned(t *testing.T) {
	p := &countingPainter{err: errors.New("sink gone")}
	s := New(p, nil)
	s.Load(NewScreen(color.RGBA{}))
	assert.Error(t, s.Handle())
}

func TestObjectTree(t *testing.T) {
	root := NewScreen(color.RGBA{A: 255})
	root.AddLabel("Howdy", 48, color.RGBA{R: 255, G: 255, B: 255, A: 255}).AlignTo(AlignCenter, 0, -20)
	canvas := root.AddCanvas(4, 4, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	canvas.FillRect(image.Rect(2, 2, 10, 10), color.RGBA{A: 255})

	assert.Equal(t, []string{"Howdy"}, root.Labels())
	assert.Equal(t, color.RGBA{A: 255}, canvas.Canvas.RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, canvas.Canvas.RGBAAt(1, 1))
	assert.Equal(t, -20, root.Children[0].OffsetY)
}
