// Package scene is a small retained-mode tree with a logical clock and
// periodic timers. Painting is delegated to a Painter.
package scene

import (
	"image"
	"image/color"
	"image/draw"
)

type Kind int

const (
	KindScreen Kind = iota
	KindLabel
	KindCanvas
)

// Align anchors an object inside its parent before the offset is applied.
type Align int

const (
	AlignCenter Align = iota
	AlignTopLeft
	AlignLeftMid
	AlignRightMid
)

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
)

// Object is a node of the tree. Only the fields for its Kind are used.
type Object struct {
	Kind     Kind
	Align    Align
	OffsetX  int
	OffsetY  int
	Children []*Object

	// Screen
	Background color.RGBA

	// Label
	Text        string
	FontSize    int
	Color       color.RGBA
	TextAlign   TextAlign
	LetterSpace int
	LineSpace   int
	// Width > 0 wraps the label to that many pixels.
	Width int

	// Canvas
	Canvas *image.RGBA
}

// NewScreen returns a root object filled with bg.
func NewScreen(bg color.RGBA) *Object {
	return &Object{Kind: KindScreen, Background: bg}
}

// AddLabel appends a text child and returns it for further styling.
func (o *Object) AddLabel(text string, size int, c color.RGBA) *Object {
	label := &Object{Kind: KindLabel, Text: text, FontSize: size, Color: c}
	o.Children = append(o.Children, label)
	return label
}

// AddCanvas appends a w×h canvas child filled with fill.
func (o *Object) AddCanvas(w, h int, fill color.RGBA) *Object {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	canvas := &Object{Kind: KindCanvas, Canvas: img}
	o.Children = append(o.Children, canvas)
	return canvas
}

// AlignTo sets the anchor and offset. It returns o for chaining.
func (o *Object) AlignTo(a Align, dx, dy int) *Object {
	o.Align = a
	o.OffsetX = dx
	o.OffsetY = dy
	return o
}

// FillRect paints a rectangle on a canvas object. Out-of-bounds parts are clipped.
func (o *Object) FillRect(r image.Rectangle, c color.RGBA) {
	if o.Canvas == nil {
		return
	}
	draw.Draw(o.Canvas, r.Intersect(o.Canvas.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// Labels returns the texts of all label descendants in tree order.
func (o *Object) Labels() []string {
	var out []string
	o.Walk(func(obj *Object) {
		if obj.Kind == KindLabel {
			out = append(out, obj.Text)
		}
	})
	return out
}

// Walk visits o and its descendants depth first.
func (o *Object) Walk(fn func(*Object)) {
	fn(o)
	for _, child := range o.Children {
		child.Walk(fn)
	}
}
