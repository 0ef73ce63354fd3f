// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goldsrc/binread"
	"goldsrc/math/vec"
)

func decodePlane(r *binread.Reader) (Plane, error) {
	normal, err := r.ReadVec3()
	if err != nil {
		return Plane{}, err
	}
	dist, err := r.ReadFloat32()
	if err != nil {
		return Plane{}, err
	}
	typ, err := r.ReadInt32()
	if err != nil {
		return Plane{}, err
	}
	if typ < int32(PlaneX) || typ > int32(PlaneAnyZ) {
		return Plane{}, &InvalidValueError{Field: "plane type", Value: int64(typ)}
	}
	return Plane{Normal: normal, Dist: dist, Type: PlaneType(typ)}, nil
}

func decodeVertex(r *binread.Reader) (Vertex, error) {
	p, err := r.ReadVec3()
	return Vertex{Position: p}, err
}

func decodeEdge(r *binread.Reader) (Edge, error) {
	v, err := r.ReadUint16Pair()
	return Edge{V: v}, err
}

func decodeSurfEdge(r *binread.Reader) (SurfEdge, error) {
	v, err := r.ReadInt32()
	return SurfEdge(v), err
}

func decodeMarkSurface(r *binread.Reader) (uint16, error) {
	return r.ReadUint16()
}

func decodeLighting(r *binread.Reader) (Lighting, error) {
	var c [3]uint8
	if err := r.ReadUint8s(c[:]); err != nil {
		return Lighting{}, err
	}
	return Lighting{R: c[0], G: c[1], B: c[2]}, nil
}

func decodeTextureInfo(r *binread.Reader) (TextureInfo, error) {
	var ti TextureInfo
	var err error
	if ti.SVector, err = r.ReadVec3(); err != nil {
		return TextureInfo{}, err
	}
	if ti.SShift, err = r.ReadFloat32(); err != nil {
		return TextureInfo{}, err
	}
	if ti.TVector, err = r.ReadVec3(); err != nil {
		return TextureInfo{}, err
	}
	if ti.TShift, err = r.ReadFloat32(); err != nil {
		return TextureInfo{}, err
	}
	var tail [2]uint32
	if err := r.ReadUint32s(tail[:]); err != nil {
		return TextureInfo{}, err
	}
	ti.TextureIndex = tail[0]
	ti.Flags = tail[1]
	return ti, nil
}

type faceRecord struct {
	PlaneIndex     uint16
	PlaneSide      uint16
	FirstEdge      uint32
	EdgeCount      uint16
	TexInfoIndex   uint16
	Styles         [4]uint8
	LightmapOffset uint32
}

func decodeFace(r *binread.Reader) (Face, error) {
	var f faceRecord
	if err := r.Read(&f); err != nil {
		return Face{}, err
	}
	return Face(f), nil
}

type modelRecord struct {
	Mins         [3]float32
	Maxs         [3]float32
	Origin       [3]float32
	HeadNodes    [MaxMapHulls]int32
	VisLeafCount int32
	FirstFace    int32
	FaceCount    int32
}

func decodeModel(r *binread.Reader) (Model, error) {
	var m modelRecord
	if err := r.Read(&m); err != nil {
		return Model{}, err
	}
	return Model{
		Mins:         vec.VFromA(m.Mins),
		Maxs:         vec.VFromA(m.Maxs),
		Origin:       vec.VFromA(m.Origin),
		HeadNodes:    m.HeadNodes,
		VisLeafCount: m.VisLeafCount,
		FirstFace:    m.FirstFace,
		FaceCount:    m.FaceCount,
	}, nil
}

func decodeNode(r *binread.Reader) (Node, error) {
	var n Node
	if err := r.Read(&n); err != nil {
		return Node{}, err
	}
	return n, nil
}

type leafRecord struct {
	Contents         int32
	VisOffset        int32
	Mins             [3]int16
	Maxs             [3]int16
	FirstMarkSurface uint16
	MarkSurfaceCount uint16
	AmbientLevels    [4]uint8
}

func decodeLeaf(r *binread.Reader) (Leaf, error) {
	var l leafRecord
	if err := r.Read(&l); err != nil {
		return Leaf{}, err
	}
	c := Contents(l.Contents)
	if !c.valid() {
		return Leaf{}, &InvalidValueError{Field: "leaf contents", Value: int64(l.Contents)}
	}
	return Leaf{
		Contents:         c,
		VisOffset:        l.VisOffset,
		Mins:             l.Mins,
		Maxs:             l.Maxs,
		FirstMarkSurface: l.FirstMarkSurface,
		MarkSurfaceCount: l.MarkSurfaceCount,
		AmbientLevels:    l.AmbientLevels,
	}, nil
}

func decodeClipNode(r *binread.Reader) (ClipNode, error) {
	var c ClipNode
	if err := r.Read(&c); err != nil {
		return ClipNode{}, err
	}
	return c, nil
}
