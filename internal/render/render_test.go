package render

import (
	"image"
	"image/color"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/badge/internal/scene"
)

func TestRGB565RoundTripsPrimaries(t *testing.T) {
	for _, c := range []color.RGBA{White, Black, {R: 0xFF, A: 0xFF}, {G: 0xFF, A: 0xFF}, {B: 0xFF, A: 0xFF}} {
		assert.Equal(t, c, ToRGB565(c).RGBA())
	}
	assert.Equal(t, RGB565(0xF800), ToRGB565(color.RGBA{R: 0xFF, A: 0xFF}))
}

// trackingSink acknowledges transfers only when released and checks that no
// buffer is overwritten while its transfer is still pending.
type trackingSink struct {
	*MemorySink
	inFlight atomic.Int32
	maxInUse int32
	regions  []image.Rectangle
}

type trackedTransfer struct {
	sink *trackingSink
	done bool
}

func (t *trackedTransfer) Wait() error {
	if !t.done {
		t.done = true
		t.sink.inFlight.Add(-1)
	}
	return nil
}

func (s *trackingSink) DrawRegion(r image.Rectangle, pixels []RGB565) Transfer {
	if n := s.inFlight.Add(1); n > s.maxInUse {
		s.maxInUse = n
	}
	s.regions = append(s.regions, r)
	s.MemorySink.DrawRegion(r, pixels)
	return &trackedTransfer{sink: s}
}

func newTestRenderer(t *testing.T, sink Sink) *Renderer {
	t.Helper()
	fonts, err := LoadFonts()
	require.NoError(t, err)
	return NewRenderer(sink, fonts, nil)
}

func TestPaintFlushesInDoubleBufferedBands(t *testing.T) {
	sink := &trackingSink{MemorySink: NewMemorySink(PanelWidth, PanelHeight)}
	r := newTestRenderer(t, sink)

	bg := color.RGBA{R: 0x1E, G: 0x3A, B: 0x8A, A: 0xFF}
	require.NoError(t, r.Paint(scene.NewScreen(bg)))

	assert.Len(t, sink.regions, 5)
	assert.EqualValues(t, 2, sink.maxInUse)
	assert.EqualValues(t, 0, sink.inFlight.Load())
	assert.Equal(t, image.Rect(0, 160, PanelWidth, PanelHeight), sink.regions[4])

	frame := sink.Snapshot()
	assert.Equal(t, ToRGB565(bg).RGBA(), frame.RGBAAt(0, 0))
	assert.Equal(t, ToRGB565(bg).RGBA(), frame.RGBAAt(PanelWidth-1, PanelHeight-1))
	assert.Equal(t, 1, r.Frames())
}

func TestPaintDrawsLabelsAndCanvas(t *testing.T) {
	sink := NewMemorySink(PanelWidth, PanelHeight)
	r := newTestRenderer(t, sink)

	root := scene.NewScreen(Black)
	root.AddLabel("Howdy", 48, White).AlignTo(scene.AlignCenter, 0, -20)
	canvas := root.AddCanvas(10, 10, White).AlignTo(scene.AlignRightMid, -20, 0)
	canvas.FillRect(image.Rect(0, 0, 5, 5), Black)
	require.NoError(t, r.Paint(root))

	frame := sink.Snapshot()
	lit := 0
	for y := 40; y < 100; y++ {
		for x := 80; x < 240; x++ {
			if frame.RGBAAt(x, y).R > 0x80 {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 100, "label pixels near the center")

	// Canvas sits at x 290..300, y 80..90; its top-left quarter is black.
	assert.Equal(t, White, frame.RGBAAt(297, 87))
	assert.Equal(t, Black, frame.RGBAAt(291, 81))
}

func TestWrapText(t *testing.T) {
	fonts, err := LoadFonts()
	require.NoError(t, err)
	face := fonts.Face(22)

	lines := WrapText(face, "the quick brown fox jumps over the lazy dog again and again", 150, 0)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, LineWidth(face, line, 0), 150, line)
	}
	assert.Equal(t, "the quick brown fox jumps over the lazy dog again and again", strings.Join(lines, " "))

	long := strings.Repeat("x", 80)
	broken := WrapText(face, long, 100, 0)
	assert.Greater(t, len(broken), 1)
	assert.Equal(t, long, strings.Join(broken, ""))

	assert.Equal(t, []string{"Find", "Me", "Here"}, WrapText(face, "Find\nMe\nHere", 0, 0))
}

func TestLetterSpaceWidensText(t *testing.T) {
	fonts, err := LoadFonts()
	require.NoError(t, err)
	face := fonts.Face(28)
	assert.Equal(t, LineWidth(face, "Johnson", 0)+6*8, LineWidth(face, "Johnson", 8))
}

func TestLayoutTextHeight(t *testing.T) {
	fonts, err := LoadFonts()
	require.NoError(t, err)
	face := fonts.Face(22)
	lh := face.Metrics().Height.Ceil()

	block := LayoutText(face, "a\nb", 0, TextStyle{LineSpace: 3})
	assert.Equal(t, 2*lh+3, block.Size.Y)
	assert.Same(t, face, fonts.Face(22))
}

func TestQRModules(t *testing.T) {
	modules, err := QRModules("https://bsky.app/profile/seagl.org")
	require.NoError(t, err)
	// Version 3 is 29 modules wide without the quiet zone.
	assert.Len(t, modules, 29)
	assert.Len(t, modules[0], 29)
	assert.True(t, modules[0][0], "finder pattern corner is dark")

	big, err := QRModules(strings.Repeat("https://example.org/", 10))
	require.NoError(t, err)
	assert.Greater(t, len(big), 29)
}

func TestQRScale(t *testing.T) {
	assert.Equal(t, 4, QRScale(29, 120))
	assert.Equal(t, 3, QRScale(57, 120))
	assert.Equal(t, 5, QRScale(21, 120))
	assert.Equal(t, 3, QRScale(0, 120))
}
