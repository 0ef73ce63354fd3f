// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"fmt"

	"goldsrc/math/vec"
)

const (
	NumLumps       = 16
	MaxMapHulls    = 4
	MaxTextureName = 16
	PaletteSize    = 256
	NumMipLevels   = 4
)

// called lump_t in c
type Lump struct {
	Offset int32
	Length int32
}

// Header is the fixed size start of every file: the identifier followed by
// the lump directory. binary.Size(Header{}) == 132.
type Header struct {
	Ident int32
	Lumps [NumLumps]Lump
}

type LumpType int

const (
	LumpEntities LumpType = iota
	LumpPlanes
	LumpTextures
	LumpVertices
	LumpVisibility
	LumpNodes
	LumpTexInfo
	LumpFaces
	LumpLighting
	LumpClipNodes
	LumpLeaves
	LumpMarkSurfaces
	LumpEdges
	LumpSurfEdges
	LumpModels
	LumpHeaderLumps
)

var lumpNames = [NumLumps]string{
	"entities", "planes", "textures", "vertices", "visibility", "nodes",
	"texinfo", "faces", "lighting", "clipnodes", "leaves", "marksurfaces",
	"edges", "surfedges", "models", "headerlumps",
}

func (l LumpType) String() string {
	if l < 0 || int(l) >= len(lumpNames) {
		return fmt.Sprintf("lump(%d)", int(l))
	}
	return lumpNames[l]
}

// on disk record sizes
const (
	planeSize       = 20
	vertexSize      = 12
	nodeSize        = 24
	texInfoSize     = 40
	faceSize        = 20
	lightingSize    = 3
	clipNodeSize    = 8
	leafSize        = 28
	markSurfaceSize = 2
	edgeSize        = 4
	surfEdgeSize    = 4
	modelSize       = 64
)

// 0: axial plane in X, 1: axial plane in Y, 2 axial in Z, 3,4,5 similar but non axial
type PlaneType int32

const (
	PlaneX PlaneType = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

func (p PlaneType) String() string {
	switch p {
	case PlaneX:
		return "X"
	case PlaneY:
		return "Y"
	case PlaneZ:
		return "Z"
	case PlaneAnyX:
		return "AnyX"
	case PlaneAnyY:
		return "AnyY"
	case PlaneAnyZ:
		return "AnyZ"
	}
	return fmt.Sprintf("PlaneType(%d)", int32(p))
}

type Plane struct {
	Normal vec.Vec3
	Dist   float32
	Type   PlaneType
}

type Vertex struct {
	Position vec.Vec3
}

// the first edge of the list is never used
type Edge struct {
	V [2]uint32 // vertex ids, stored as uint16
}

// SurfEdge is a signed edge index. The absolute value selects the edge, a
// negative sign walks the edge from V[1] to V[0].
type SurfEdge int32

// EdgeRef is a decoded SurfEdge.
type EdgeRef struct {
	Edge     int
	Reversed bool
}

func (s SurfEdge) Ref() EdgeRef {
	if s < 0 {
		return EdgeRef{Edge: -int(s), Reversed: true}
	}
	return EdgeRef{Edge: int(s)}
}

// Vertices returns the vertex ids of e in walking order.
func (r EdgeRef) Vertices(e Edge) (uint32, uint32) {
	if r.Reversed {
		return e.V[1], e.V[0]
	}
	return e.V[0], e.V[1]
}

type TextureInfo struct {
	SVector      vec.Vec3 // S vector, horizontal in texture space
	SShift       float32  // horizontal offset in texture space
	TVector      vec.Vec3 // T vector, vertical in texture space
	TShift       float32  // vertical offset in texture space
	TextureIndex uint32   // Index of mip texture, must be in [0,numtex[
	Flags        uint32
}

// Texture is a mip texture header. Mip and Palette are only filled when the
// pixels are stored with the texture, see Embedded.
type Texture struct {
	RawName [MaxTextureName]byte
	Width   uint32
	Height  uint32
	// Offsets[0] to Pix[width * height]
	// 1: to Pix[width/2 * height/2]
	// 2: to Pix[width/4 * height/4]
	// 3: to Pix[width/8 * height/8]
	MipOffsets [NumMipLevels]uint32
	Mip        []byte // width*height palette indices of the first mip level
	Palette    [PaletteSize][3]byte
}

// Name returns the texture name up to the first zero byte.
func (t *Texture) Name() string {
	return CString(t.RawName[:])
}

// Embedded reports whether the pixel data is part of the record. If not the
// texture has to be looked up by name in a wad.
func (t *Texture) Embedded() bool {
	return t.MipOffsets[0] > 0
}

// CString returns b up to the first zero byte.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

type Face struct {
	PlaneIndex     uint16 // The plane in which the face lies, must be in [0,numplanes[
	PlaneSide      uint16
	FirstEdge      uint32 // first surfedge
	EdgeCount      uint16
	TexInfoIndex   uint16
	Styles         [4]uint8
	LightmapOffset uint32 // byte offset into the lighting lump, or 0xffffffff
}

// NoLightmap marks a face without light samples.
const NoLightmap = 0xffffffff

// Model, either a big zone, the level or parts inside that zone
type Model struct {
	Mins         vec.Vec3
	Maxs         vec.Vec3
	Origin       vec.Vec3
	HeadNodes    [MaxMapHulls]int32
	VisLeafCount int32 // not including the solid leaf 0
	FirstFace    int32
	FaceCount    int32
}

type Node struct {
	PlaneIndex uint32
	Children   [2]int16
	Mins       [3]int16
	Maxs       [3]int16
	FirstFace  uint16
	FaceCount  uint16
}

type ChildKind int

const (
	ChildEmpty ChildKind = iota
	ChildNode
	ChildLeaf
)

func (k ChildKind) String() string {
	switch k {
	case ChildNode:
		return "node"
	case ChildLeaf:
		return "leaf"
	}
	return "empty"
}

// ChildRef is a decoded node child. Index is only valid for ChildNode and
// ChildLeaf.
type ChildRef struct {
	Kind  ChildKind
	Index int
}

// childRef decodes c: >= 0 is a node, -1 is empty, < -1 is leaf -c-1.
func childRef(c int32) ChildRef {
	switch {
	case c >= 0:
		return ChildRef{Kind: ChildNode, Index: int(c)}
	case c == -1:
		return ChildRef{Kind: ChildEmpty}
	}
	return ChildRef{Kind: ChildLeaf, Index: int(-c - 1)}
}

// Child returns the front (0) or back (1) child.
func (n *Node) Child(side int) ChildRef {
	return childRef(int32(n.Children[side]))
}

type Contents int32

const (
	_                   = iota
	ContentsEmpty       = Contents(-iota)
	ContentsSolid       = Contents(-iota)
	ContentsWater       = Contents(-iota)
	ContentsSlime       = Contents(-iota)
	ContentsLava        = Contents(-iota)
	ContentsSky         = Contents(-iota)
	ContentsOrigin      = Contents(-iota)
	ContentsClip        = Contents(-iota)
	ContentsCurrent0    = Contents(-iota)
	ContentsCurrent90   = Contents(-iota)
	ContentsCurrent180  = Contents(-iota)
	ContentsCurrent270  = Contents(-iota)
	ContentsCurrentUp   = Contents(-iota)
	ContentsCurrentDown = Contents(-iota)
	ContentsTranslucent = Contents(-iota)
)

var contentsNames = []string{
	"Empty", "Solid", "Water", "Slime", "Lava", "Sky", "Origin", "Clip",
	"Current0", "Current90", "Current180", "Current270", "CurrentUp",
	"CurrentDown", "Translucent",
}

func (c Contents) valid() bool {
	return c <= ContentsEmpty && c >= ContentsTranslucent
}

func (c Contents) String() string {
	if !c.valid() {
		return fmt.Sprintf("Contents(%d)", int32(c))
	}
	return contentsNames[-c-1]
}

type Leaf struct {
	Contents         Contents
	VisOffset        int32
	Mins             [3]int16
	Maxs             [3]int16
	FirstMarkSurface uint16
	MarkSurfaceCount uint16
	AmbientLevels    [4]uint8
}

type ClipNode struct {
	PlaneIndex int32    // the plane which splits the node
	Children   [2]int16 // if positive id of the child node, -2 if front part inside the model, -1 if outside the model
}

type Lighting struct {
	R, G, B uint8
}
