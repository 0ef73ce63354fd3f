// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"goldsrc/binread"
	"goldsrc/conlog"
)

// GoldSrc limits textures to 512x512 but some tools write larger ones.
const maxTextureDim = 4096

// DecodeTexture decodes the mip texture record starting at base. The same
// record is used inside the textures lump and inside wad files.
//
// If MipOffsets[0] is set, the first mip level is read at base+MipOffsets[0].
// When all four levels are present and the last one is followed by a 16 bit
// color count of 256, the palette comes after that count. Otherwise it
// directly follows the first level.
func DecodeTexture(r *binread.Reader, base int64) (Texture, error) {
	var t Texture
	if err := r.Seek(base); err != nil {
		return Texture{}, err
	}
	if err := r.ReadUint8s(t.RawName[:]); err != nil {
		return Texture{}, errors.Wrap(err, "texture name")
	}
	var dims [2]uint32
	if err := r.ReadUint32s(dims[:]); err != nil {
		return Texture{}, errors.Wrap(err, "texture size")
	}
	t.Width, t.Height = dims[0], dims[1]
	if err := r.ReadUint32s(t.MipOffsets[:]); err != nil {
		return Texture{}, errors.Wrap(err, "texture mip offsets")
	}
	if !t.Embedded() {
		return t, nil
	}
	if t.Width > maxTextureDim {
		return Texture{}, &InvalidValueError{Field: "texture width", Value: int64(t.Width)}
	}
	if t.Height > maxTextureDim {
		return Texture{}, &InvalidValueError{Field: "texture height", Value: int64(t.Height)}
	}

	if err := r.Seek(base + int64(t.MipOffsets[0])); err != nil {
		return Texture{}, err
	}
	mip, err := r.ReadBytes(int64(t.Width) * int64(t.Height))
	if err != nil {
		return Texture{}, errors.Wrapf(err, "texture %q pixels", t.Name())
	}
	t.Mip = mip

	if t.MipOffsets[1] > 0 && t.MipOffsets[2] > 0 && t.MipOffsets[3] > 0 && !paletteAfterMips(r, base, &t) {
		if err := r.Seek(base + int64(t.MipOffsets[0]) + int64(len(t.Mip))); err != nil {
			return Texture{}, err
		}
	}
	var pal [PaletteSize * 3]byte
	if err := r.ReadUint8s(pal[:]); err != nil {
		return Texture{}, errors.Wrapf(err, "texture %q palette", t.Name())
	}
	for i := range t.Palette {
		copy(t.Palette[i][:], pal[i*3:i*3+3])
	}
	return t, nil
}

// paletteAfterMips positions r at the palette behind the last mip level and
// its color count. It reports false, leaving r anywhere, if there is no count
// of 256 at that place.
func paletteAfterMips(r *binread.Reader, base int64, t *Texture) bool {
	last := int64(t.Width/8) * int64(t.Height/8)
	if err := r.Seek(base + int64(t.MipOffsets[3]) + last); err != nil {
		return false
	}
	colors, err := r.ReadUint16()
	if err != nil || colors != PaletteSize {
		conlog.Debug("no palette behind the mip levels", "texture", t.Name(), "colors", colors)
		return false
	}
	return true
}

// decodeTextures reads the textures lump: a count, count offsets relative to
// the lump start and the records they point to.
func decodeTextures(r *binread.Reader, h *Header) ([]Texture, error) {
	l, err := seekLump(r, h, LumpTextures)
	if err != nil {
		return nil, err
	}
	if l.Length == 0 {
		return nil, nil
	}
	count, err := r.ReadInt32()
	if err != nil {
		return nil, errors.Wrap(err, "lump textures count")
	}
	if count < 0 || int64(count)*4 > int64(l.Length) {
		return nil, errors.Wrap(&InvalidValueError{Field: "texture count", Value: int64(count)}, "lump textures")
	}
	offsets := make([]int32, count)
	if err := r.ReadInt32s(offsets); err != nil {
		return nil, errors.Wrap(err, "lump textures offsets")
	}
	textures := make([]Texture, 0, count)
	for i, off := range offsets {
		if off < 0 {
			// -1 marks a texture the compiler could not find; keep the slot so
			// texinfo indices still line up
			conlog.Debug("texture without data", "index", i)
			textures = append(textures, Texture{})
			continue
		}
		t, err := DecodeTexture(r, int64(l.Offset)+int64(off))
		if err != nil {
			return nil, errors.Wrapf(err, "lump textures record %d", i)
		}
		textures = append(textures, t)
	}
	conlog.Debug("decoded lump", "lump", LumpTextures, "records", len(textures))
	return textures, nil
}
