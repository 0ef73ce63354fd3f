// SPDX-License-Identifier: GPL-2.0-or-later

// Package palette turns paletted mip textures into RGBA images.
package palette

import (
	"image"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"goldsrc/bsp"
	"goldsrc/math"
)

// ColorKey is the palette color that is drawn transparent.
var ColorKey = [3]byte{0, 0, 255}

var ErrNoPixels = errors.New("texture has no embedded pixels")

// Image is an 8 bit RGBA image.
type Image struct {
	// ID is unique per materialized image, it does not depend on the name.
	ID     uuid.UUID
	Name   string
	Width  int
	Height int
	Pix    []byte // RGBA, row major, 4*Width*Height
	// Transparent is set if at least one pixel uses the color key.
	Transparent bool
}

// Materialize maps the first mip level of t through its palette. Pixels with
// the ColorKey color get alpha 0, all others alpha 255.
func Materialize(t *bsp.Texture) (*Image, error) {
	if !t.Embedded() || t.Mip == nil {
		return nil, errors.Wrapf(ErrNoPixels, "texture %q", t.Name())
	}
	w, h := int(t.Width), int(t.Height)
	if len(t.Mip) != w*h {
		return nil, errors.Errorf("texture %q: %d pixels for %dx%d", t.Name(), len(t.Mip), w, h)
	}
	img := &Image{
		ID:     uuid.Must(uuid.NewV7()),
		Name:   t.Name(),
		Width:  w,
		Height: h,
		Pix:    make([]byte, 4*w*h),
	}
	pi := 0
	for _, idx := range t.Mip {
		c := t.Palette[math.ClampIndex(idx, bsp.PaletteSize)]
		img.Pix[pi] = c[0]
		img.Pix[pi+1] = c[1]
		img.Pix[pi+2] = c[2]
		if c == ColorKey {
			img.Pix[pi+3] = 0
			img.Transparent = true
		} else {
			img.Pix[pi+3] = 255
		}
		pi += 4
	}
	return img, nil
}

// NRGBA shares the pixels of i.
func (i *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    i.Pix,
		Stride: 4 * i.Width,
		Rect:   image.Rect(0, 0, i.Width, i.Height),
	}
}
