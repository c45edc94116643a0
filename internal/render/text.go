package render

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// TextStyle describes one label's typography.
type TextStyle struct {
	LetterSpace int
	LineSpace   int
	Center      bool
}

// LineWidth measures s including letter spacing between glyphs.
func LineWidth(face font.Face, s string, letterSpace int) int {
	w := font.MeasureString(face, s).Ceil()
	if n := utf8.RuneCountInString(s); n > 1 {
		w += letterSpace * (n - 1)
	}
	return w
}

// WrapText splits text on newlines, then breaks each line on spaces so it fits
// width. Words wider than width are broken between runes. width <= 0 disables
// wrapping.
func WrapText(face font.Face, text string, width, letterSpace int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if width <= 0 {
			out = append(out, para)
			continue
		}
		out = append(out, wrapParagraph(face, para, width, letterSpace)...)
	}
	return out
}

func wrapParagraph(face font.Face, para string, width, letterSpace int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if LineWidth(face, candidate, letterSpace) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		for LineWidth(face, word, letterSpace) > width {
			head, rest := splitToFit(face, word, width, letterSpace)
			lines = append(lines, head)
			word = rest
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// splitToFit returns the longest prefix of word (at least one rune) that fits.
func splitToFit(face font.Face, word string, width, letterSpace int) (string, string) {
	cut := 0
	for i := range word {
		if i > 0 && LineWidth(face, word[:i], letterSpace) > width {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(word)
		cut = size
	}
	return word[:cut], word[cut:]
}

// TextBlock is laid-out text ready to draw.
type TextBlock struct {
	Lines []string
	Size  image.Point
	face  font.Face
	style TextStyle
}

// LayoutText wraps text and measures the resulting block. With width > 0 the
// block is exactly width wide.
func LayoutText(face font.Face, text string, width int, style TextStyle) TextBlock {
	lines := WrapText(face, text, width, style.LetterSpace)
	lineHeight := face.Metrics().Height.Ceil()
	w := width
	if w <= 0 {
		for _, line := range lines {
			if lw := LineWidth(face, line, style.LetterSpace); lw > w {
				w = lw
			}
		}
	}
	h := len(lines)*lineHeight + (len(lines)-1)*style.LineSpace
	return TextBlock{Lines: lines, Size: image.Pt(w, h), face: face, style: style}
}

// Draw renders the block with its top-left corner at origin.
func (b TextBlock) Draw(dst *image.RGBA, origin image.Point, c color.RGBA) {
	metrics := b.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: b.face}
	for i, line := range b.Lines {
		x := origin.X
		if b.style.Center {
			x += (b.Size.X - LineWidth(b.face, line, b.style.LetterSpace)) / 2
		}
		y := origin.Y + i*(lineHeight+b.style.LineSpace) + ascent
		d.Dot = fixed.P(x, y)
		if b.style.LetterSpace == 0 {
			d.DrawString(line)
			continue
		}
		for _, r := range line {
			d.DrawString(string(r))
			d.Dot.X += fixed.I(b.style.LetterSpace)
		}
	}
}
