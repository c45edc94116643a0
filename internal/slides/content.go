package slides

import (
	"fmt"
	"image"
	"image/color"

	"github.com/rook-computer/badge/internal/render"
	"github.com/rook-computer/badge/internal/scene"
	"github.com/rook-computer/badge/internal/state"
)

var (
	Navy    = color.RGBA{R: 0x1E, G: 0x3A, B: 0x8A, A: 0xFF}
	Emerald = color.RGBA{R: 0x05, G: 0x96, B: 0x69, A: 0xFF}
	Red     = color.RGBA{R: 0xDC, G: 0x26, B: 0x26, A: 0xFF}
	Sky     = color.RGBA{R: 0x60, G: 0xA5, B: 0xFA, A: 0xFF}
)

// QRCanvasSize is the side of the white canvas behind the QR symbol.
const QRCanvasSize = 120

// Content is the per-badge text the slides show.
type Content struct {
	FirstName  string
	LastName   string
	ProfileURL string
	Tag        string
}

// Placeholder is shown on a post slide with nothing to show.
func (c Content) Placeholder() string {
	return fmt.Sprintf("No posts yet!\nBe the first to post\n#%s\non Bluesky", c.Tag)
}

// Build returns the tree for slide index. Any index is accepted and
// normalised onto the cycle; missing posts fall back to the placeholder.
func Build(index int, snap state.State, c Content) *scene.Object {
	switch normalize(index) {
	case 0:
		return welcome()
	case 1:
		return name(c)
	case 2:
		return findMe(c)
	case 3, 4, 5:
		return post(normalize(index)-3, snap, c)
	default:
		return callToAction(c)
	}
}

func normalize(index int) int {
	index %= state.SlideCount
	if index < 0 {
		index += state.SlideCount
	}
	return index
}

func welcome() *scene.Object {
	root := scene.NewScreen(Navy)
	root.AddLabel("Howdy", 48, render.White).AlignTo(scene.AlignCenter, 0, -20)
	root.AddLabel("My Name Is", 28, render.White).AlignTo(scene.AlignCenter, 0, 30)
	return root
}

func name(c Content) *scene.Object {
	root := scene.NewScreen(Emerald)
	root.AddLabel(c.FirstName, 48, render.White).AlignTo(scene.AlignCenter, 0, -15)
	last := root.AddLabel(c.LastName, 28, render.White).AlignTo(scene.AlignCenter, 0, 30)
	last.LetterSpace = 8
	return root
}

func findMe(c Content) *scene.Object {
	root := scene.NewScreen(Navy)
	text := root.AddLabel("Find\nMe\nHere", 32, render.White).AlignTo(scene.AlignLeftMid, 20, 0)
	text.TextAlign = scene.TextAlignCenter

	canvas := root.AddCanvas(QRCanvasSize, QRCanvasSize, render.White).AlignTo(scene.AlignRightMid, -20, 0)
	drawQR(canvas, c.ProfileURL)
	return root
}

// drawQR paints the symbol's dark modules as scale×scale squares from the
// canvas origin. An unencodable payload leaves the canvas blank.
func drawQR(canvas *scene.Object, payload string) {
	modules, err := render.QRModules(payload)
	if err != nil {
		return
	}
	scale := render.QRScale(len(modules), QRCanvasSize)
	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			canvas.FillRect(image.Rect(x*scale, y*scale, (x+1)*scale, (y+1)*scale), render.Black)
		}
	}
}

func post(i int, snap state.State, c Content) *scene.Object {
	root := scene.NewScreen(Red)
	p, ok := snap.Post(i)
	if !ok {
		placeholder := root.AddLabel(c.Placeholder(), 20, render.White).AlignTo(scene.AlignCenter, 0, 0)
		placeholder.TextAlign = scene.TextAlignCenter
		return root
	}
	root.AddLabel(p.Author, 22, Sky).AlignTo(scene.AlignTopLeft, 0, 0)
	body := root.AddLabel(p.Text, 22, render.White).AlignTo(scene.AlignTopLeft, 0, 22)
	body.Width = render.PanelWidth - 2
	body.LineSpace = 3
	return root
}

func callToAction(c Content) *scene.Object {
	root := scene.NewScreen(Red)
	heading := root.AddLabel(fmt.Sprintf("#%s\non BlueSky", c.Tag), 32, render.White).AlignTo(scene.AlignCenter, 0, -20)
	heading.TextAlign = scene.TextAlignCenter
	root.AddLabel("Join the conversation!", 20, render.White).AlignTo(scene.AlignCenter, 0, 40)
	return root
}
