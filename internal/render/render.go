package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/render/layout"
	"github.com/rook-computer/badge/internal/scene"
)

// Renderer paints a scene tree into an RGBA canvas and flushes it to the
// sink in bands through two alternating RGB565 buffers.
type Renderer struct {
	sink   Sink
	fonts  *Fonts
	logger logging.Logger

	canvas  *image.RGBA
	bufs    [2][]RGB565
	pending [2]Transfer
	frames  int
}

var _ scene.Painter = (*Renderer)(nil)

func NewRenderer(sink Sink, fonts *Fonts, logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	r := &Renderer{
		sink:   sink,
		fonts:  fonts,
		logger: logger,
		canvas: image.NewRGBA(image.Rect(0, 0, PanelWidth, PanelHeight)),
	}
	for i := range r.bufs {
		r.bufs[i] = make([]RGB565, PanelWidth*BandRows)
	}
	return r
}

// Canvas exposes the last painted frame before RGB565 conversion.
func (r *Renderer) Canvas() *image.RGBA { return r.canvas }

func (r *Renderer) Frames() int { return r.frames }

// Paint draws root and flushes the frame. It returns once every band has
// been acknowledged by the sink.
func (r *Renderer) Paint(root *scene.Object) error {
	r.draw(root, r.canvas.Bounds())
	err := r.flush()
	r.frames++
	return err
}

func (r *Renderer) draw(obj *scene.Object, parent image.Rectangle) {
	switch obj.Kind {
	case scene.KindScreen:
		draw.Draw(r.canvas, parent, &image.Uniform{C: obj.Background}, image.Point{}, draw.Src)
		for _, child := range obj.Children {
			r.draw(child, parent)
		}
	case scene.KindLabel:
		face := r.fonts.Face(obj.FontSize)
		block := LayoutText(face, obj.Text, obj.Width, TextStyle{
			LetterSpace: obj.LetterSpace,
			LineSpace:   obj.LineSpace,
			Center:      obj.TextAlign == scene.TextAlignCenter,
		})
		box := layout.Place(parent, block.Size, anchorFor(obj.Align), image.Pt(obj.OffsetX, obj.OffsetY))
		block.Draw(r.canvas, box.Min, obj.Color)
	case scene.KindCanvas:
		if obj.Canvas == nil {
			return
		}
		box := layout.Place(parent, obj.Canvas.Bounds().Size(), anchorFor(obj.Align), image.Pt(obj.OffsetX, obj.OffsetY))
		draw.Draw(r.canvas, box, obj.Canvas, obj.Canvas.Bounds().Min, draw.Src)
	}
}

func anchorFor(a scene.Align) layout.Anchor {
	switch a {
	case scene.AlignTopLeft:
		return layout.TopLeft
	case scene.AlignLeftMid:
		return layout.LeftMid
	case scene.AlignRightMid:
		return layout.RightMid
	default:
		return layout.Center
	}
}

func (r *Renderer) flush() error {
	var errs []error
	for i, band := range layout.Bands(r.canvas.Bounds(), BandRows) {
		slot := i % len(r.bufs)
		if p := r.pending[slot]; p != nil {
			if err := p.Wait(); err != nil {
				errs = append(errs, err)
			}
			r.pending[slot] = nil
		}
		buf := r.bufs[slot][:band.Dx()*band.Dy()]
		fillBand(buf, r.canvas, band)
		r.pending[slot] = r.sink.DrawRegion(band, buf)
	}
	for slot, p := range r.pending {
		if p == nil {
			continue
		}
		if err := p.Wait(); err != nil {
			errs = append(errs, err)
		}
		r.pending[slot] = nil
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func fillBand(buf []RGB565, src *image.RGBA, band image.Rectangle) {
	i := 0
	for y := band.Min.Y; y < band.Max.Y; y++ {
		for x := band.Min.X; x < band.Max.X; x++ {
			buf[i] = ToRGB565(src.RGBAAt(x, y))
			i++
		}
	}
}
