package layout

import "image"

// Anchor is a reference point inside a parent rectangle.
type Anchor int

const (
	Center Anchor = iota
	TopLeft
	LeftMid
	RightMid
)

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Place returns a box of size placed at anchor inside parent, then shifted
// by offset. The box may extend past parent; clipping is the caller's job.
func Place(parent image.Rectangle, size image.Point, anchor Anchor, offset image.Point) image.Rectangle {
	parent = Normalize(parent)
	if size.X < 0 {
		size.X = 0
	}
	if size.Y < 0 {
		size.Y = 0
	}

	var origin image.Point
	switch anchor {
	case TopLeft:
		origin = parent.Min
	case LeftMid:
		origin = image.Pt(parent.Min.X, parent.Min.Y+(parent.Dy()-size.Y)/2)
	case RightMid:
		origin = image.Pt(parent.Max.X-size.X, parent.Min.Y+(parent.Dy()-size.Y)/2)
	default:
		origin = image.Pt(parent.Min.X+(parent.Dx()-size.X)/2, parent.Min.Y+(parent.Dy()-size.Y)/2)
	}
	origin = origin.Add(offset)
	return image.Rectangle{Min: origin, Max: origin.Add(size)}
}

// Bands cuts rect into horizontal strips of at most rows lines each.
func Bands(rect image.Rectangle, rows int) []image.Rectangle {
	rect = Normalize(rect)
	if rows <= 0 || rect.Empty() {
		return nil
	}
	var out []image.Rectangle
	for y := rect.Min.Y; y < rect.Max.Y; y += rows {
		end := y + rows
		if end > rect.Max.Y {
			end = rect.Max.Y
		}
		out = append(out, image.Rect(rect.Min.X, y, rect.Max.X, end))
	}
	return out
}
