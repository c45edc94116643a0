package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlace(t *testing.T) {
	parent := image.Rect(0, 0, 320, 170)
	size := image.Pt(120, 120)

	assert.Equal(t, image.Rect(100, 25, 220, 145), Place(parent, size, Center, image.Point{}))
	assert.Equal(t, image.Rect(180, 25, 300, 145), Place(parent, size, RightMid, image.Pt(-20, 0)))
	assert.Equal(t, image.Rect(20, 25, 140, 145), Place(parent, size, LeftMid, image.Pt(20, 0)))
	assert.Equal(t, image.Rect(0, 22, 120, 142), Place(parent, size, TopLeft, image.Pt(0, 22)))
}

func TestBands(t *testing.T) {
	bands := Bands(image.Rect(0, 0, 320, 170), 40)
	assert.Len(t, bands, 5)
	assert.Equal(t, image.Rect(0, 0, 320, 40), bands[0])
	assert.Equal(t, image.Rect(0, 160, 320, 170), bands[4])

	assert.Nil(t, Bands(image.Rect(0, 0, 10, 10), 0))
	assert.Nil(t, Bands(image.Rectangle{}, 40))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 10, 10), Normalize(image.Rectangle{Min: image.Pt(10, 10), Max: image.Pt(0, 0)}))
}
