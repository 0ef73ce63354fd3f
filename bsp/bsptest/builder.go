// SPDX-License-Identifier: GPL-2.0-or-later

// Package bsptest writes small in-memory maps for tests.
package bsptest

import (
	"bytes"
	"encoding/binary"

	"goldsrc/bsp"
)

// Builder collects the records of a version 30 map. Records are written in
// their on-disk layout, lumps in directory order behind the header.
type Builder struct {
	Ident        int32
	Entities     string
	Planes       []bsp.Plane
	Textures     []bsp.Texture
	Vertices     []bsp.Vertex
	Visibility   []byte
	Nodes        []bsp.Node
	TexInfos     []bsp.TextureInfo
	Faces        []bsp.Face
	Lighting     []bsp.Lighting
	ClipNodes    []bsp.ClipNode
	Leaves       []bsp.Leaf
	MarkSurfaces []uint16
	Edges        []bsp.Edge
	SurfEdges    []int32
	Models       []bsp.Model
	// Pad appends junk bytes to a lump that are counted in its length.
	Pad map[bsp.LumpType]int
	// MissingTextures lists texture slots written with offset -1.
	MissingTextures []int
}

func New() *Builder {
	return &Builder{Ident: bsp.Ident30}
}

func put(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
}

// EncodeTexture writes t in the compact layout: header, mip0, palette. If t
// has no pixels only the header with its offsets is written. Mip offsets
// 1..3 are kept when all of them are set, the pixels still start at 40.
func EncodeTexture(t *bsp.Texture) []byte {
	buf := &bytes.Buffer{}
	put(buf, t.RawName)
	put(buf, [2]uint32{t.Width, t.Height})
	if t.Mip == nil {
		put(buf, t.MipOffsets)
		return buf.Bytes()
	}
	offsets := [4]uint32{40, 0, 0, 0}
	if t.MipOffsets[1] > 0 && t.MipOffsets[2] > 0 && t.MipOffsets[3] > 0 {
		copy(offsets[1:], t.MipOffsets[1:])
	}
	put(buf, offsets)
	buf.Write(t.Mip)
	for _, c := range t.Palette {
		buf.Write(c[:])
	}
	return buf.Bytes()
}

// EncodeTextureFull writes t the way map compilers do: all four mip levels,
// a 16 bit color count and the palette.
func EncodeTextureFull(t *bsp.Texture) []byte {
	buf := &bytes.Buffer{}
	put(buf, t.RawName)
	put(buf, [2]uint32{t.Width, t.Height})
	size := t.Width * t.Height
	o0 := uint32(40)
	o1 := o0 + size
	o2 := o1 + size/4
	o3 := o2 + size/16
	put(buf, [4]uint32{o0, o1, o2, o3})
	buf.Write(t.Mip)
	buf.Write(make([]byte, size/4+size/16+size/64))
	put(buf, uint16(bsp.PaletteSize))
	for _, c := range t.Palette {
		buf.Write(c[:])
	}
	return buf.Bytes()
}

// Name returns a zero padded texture name.
func Name(s string) [bsp.MaxTextureName]byte {
	var n [bsp.MaxTextureName]byte
	copy(n[:], s)
	return n
}

func (b *Builder) lump(lt bsp.LumpType) []byte {
	buf := &bytes.Buffer{}
	switch lt {
	case bsp.LumpEntities:
		buf.WriteString(b.Entities)
	case bsp.LumpPlanes:
		for _, p := range b.Planes {
			put(buf, p.Normal.Array())
			put(buf, p.Dist)
			put(buf, int32(p.Type))
		}
	case bsp.LumpTextures:
		b.textures(buf)
	case bsp.LumpVertices:
		for _, v := range b.Vertices {
			put(buf, v.Position.Array())
		}
	case bsp.LumpVisibility:
		buf.Write(b.Visibility)
	case bsp.LumpNodes:
		for _, n := range b.Nodes {
			put(buf, n)
		}
	case bsp.LumpTexInfo:
		for _, ti := range b.TexInfos {
			put(buf, ti.SVector.Array())
			put(buf, ti.SShift)
			put(buf, ti.TVector.Array())
			put(buf, ti.TShift)
			put(buf, [2]uint32{ti.TextureIndex, ti.Flags})
		}
	case bsp.LumpFaces:
		for _, f := range b.Faces {
			put(buf, f)
		}
	case bsp.LumpLighting:
		for _, l := range b.Lighting {
			put(buf, l)
		}
	case bsp.LumpClipNodes:
		for _, c := range b.ClipNodes {
			put(buf, c)
		}
	case bsp.LumpLeaves:
		for _, l := range b.Leaves {
			put(buf, l)
		}
	case bsp.LumpMarkSurfaces:
		put(buf, b.MarkSurfaces)
	case bsp.LumpEdges:
		for _, e := range b.Edges {
			put(buf, [2]uint16{uint16(e.V[0]), uint16(e.V[1])})
		}
	case bsp.LumpSurfEdges:
		put(buf, b.SurfEdges)
	case bsp.LumpModels:
		for _, m := range b.Models {
			put(buf, m.Mins.Array())
			put(buf, m.Maxs.Array())
			put(buf, m.Origin.Array())
			put(buf, m.HeadNodes)
			put(buf, [3]int32{m.VisLeafCount, m.FirstFace, m.FaceCount})
		}
	}
	buf.Write(make([]byte, b.Pad[lt]))
	return buf.Bytes()
}

func (b *Builder) textures(buf *bytes.Buffer) {
	if len(b.Textures) == 0 && len(b.MissingTextures) == 0 {
		return
	}
	count := len(b.Textures) + len(b.MissingTextures)
	missing := make(map[int]bool)
	for _, i := range b.MissingTextures {
		missing[i] = true
	}
	var records [][]byte
	offsets := make([]int32, count)
	pos := int32(4 + 4*count)
	ti := 0
	for i := range offsets {
		if missing[i] {
			offsets[i] = -1
			continue
		}
		r := EncodeTexture(&b.Textures[ti])
		ti++
		offsets[i] = pos
		pos += int32(len(r))
		records = append(records, r)
	}
	put(buf, int32(count))
	put(buf, offsets)
	for _, r := range records {
		buf.Write(r)
	}
}

// Bytes returns the encoded map.
func (b *Builder) Bytes() []byte {
	var h bsp.Header
	h.Ident = b.Ident
	body := &bytes.Buffer{}
	offset := int32(binary.Size(h))
	for i := range h.Lumps {
		l := b.lump(bsp.LumpType(i))
		h.Lumps[i] = bsp.Lump{Offset: offset + int32(body.Len()), Length: int32(len(l))}
		body.Write(l)
	}
	out := &bytes.Buffer{}
	put(out, h)
	out.Write(body.Bytes())
	return out.Bytes()
}

// Reader returns the encoded map as a seekable reader.
func (b *Builder) Reader() *bytes.Reader {
	return bytes.NewReader(b.Bytes())
}
