// SPDX-License-Identifier: GPL-2.0-or-later

// Package mesh builds triangle meshes from the faces of a decoded map.
//
// Triangles are wound counter-clockwise when seen from the side the face
// normal points to. Maps store the boundary of a face clockwise, so the
// boundary is reversed before it is triangulated.
package mesh

import (
	"strings"

	"github.com/chewxy/math32"

	"goldsrc/bsp"
	"goldsrc/math/vec"
)

type Options struct {
	// SkipSky leaves out faces textured with "sky".
	SkipSky bool
	// Lighting attaches the face light sample as vertex color.
	Lighting bool
}

// Mesh is one face. All vertex slices have the same length, Colors is nil
// without lighting.
type Mesh struct {
	Face      int
	Normal    vec.Vec3
	Positions []vec.Vec3
	Normals   []vec.Vec3
	UVs       [][2]float32
	Colors    [][3]uint8
	Indices   []uint32
	Texture   int // index into the map textures or -1
}

func (m *Mesh) Empty() bool {
	return len(m.Indices) == 0
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangulate returns the indices of a triangle fan over a convex polygon of
// n vertices: (0, i, i+1) for i in [1, n-2]. Less than 3 vertices give no
// triangles.
func Triangulate(n int) []uint32 {
	if n < 3 {
		return nil
	}
	idx := make([]uint32, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		idx = append(idx, 0, uint32(i), uint32(i+1))
	}
	return idx
}

// IsSky reports whether faces with this texture are not drawn but show the
// sky box.
func IsSky(name string) bool {
	return strings.EqualFold(name, "sky")
}

type faceBuilder struct {
	m     *bsp.GoldSrc30
	face  int
	diags []Diagnostic
}

func (b *faceBuilder) report(k DiagnosticKind, idx int64, note string) {
	b.diags = append(b.diags, Diagnostic{Face: b.face, Kind: k, Index: idx, Note: note})
}

// texture resolves the texture info and the texture of f. Both may be nil.
func (b *faceBuilder) texture(f *bsp.Face) (*bsp.TextureInfo, *bsp.Texture, int) {
	if int(f.TexInfoIndex) >= len(b.m.TexInfos) {
		b.report(MissingTexInfo, int64(f.TexInfoIndex), "")
		return nil, nil, -1
	}
	ti := &b.m.TexInfos[f.TexInfoIndex]
	if int64(ti.TextureIndex) >= int64(len(b.m.Textures)) {
		b.report(MissingTexture, int64(ti.TextureIndex), "")
		return ti, nil, -1
	}
	return ti, &b.m.Textures[ti.TextureIndex], int(ti.TextureIndex)
}

// boundary walks the surfedges of f and returns the first vertex of every
// edge in walking order.
func (b *faceBuilder) boundary(f *bsp.Face) []vec.Vec3 {
	first := int64(f.FirstEdge)
	count := int64(f.EdgeCount)
	if first+count > int64(len(b.m.SurfEdges)) {
		b.report(MissingSurfEdge, first+count-1, "")
		count = max(0, int64(len(b.m.SurfEdges))-first)
	}
	pos := make([]vec.Vec3, 0, count)
	for i := first; i < first+count; i++ {
		ref := b.m.SurfEdges[i].Ref()
		if ref.Edge >= len(b.m.Edges) {
			b.report(MissingEdge, int64(ref.Edge), "")
			continue
		}
		v, _ := ref.Vertices(b.m.Edges[ref.Edge])
		if int(v) >= len(b.m.Vertices) {
			b.report(MissingVertex, int64(v), "")
			continue
		}
		pos = append(pos, b.m.Vertices[v].Position)
	}
	return pos
}

func (b *faceBuilder) lightSample(f *bsp.Face) (bsp.Lighting, bool) {
	if f.LightmapOffset == bsp.NoLightmap {
		return bsp.Lighting{}, false
	}
	i := int64(f.LightmapOffset) / 3
	if i >= int64(len(b.m.Lighting)) {
		b.report(MissingLighting, int64(f.LightmapOffset), "")
		return bsp.Lighting{}, false
	}
	return b.m.Lighting[i], true
}

func uv(p vec.Vec3, ti *bsp.TextureInfo, t *bsp.Texture) [2]float32 {
	if ti == nil || t == nil || t.Width == 0 || t.Height == 0 {
		return [2]float32{}
	}
	return [2]float32{
		(vec.Dot(p, ti.SVector) + ti.SShift) / float32(t.Width),
		(vec.Dot(p, ti.TVector) + ti.TShift) / float32(t.Height),
	}
}

// BuildFace builds the mesh of face index. Broken references are reported
// as diagnostics; the mesh is then empty or lacks the affected vertices.
func BuildFace(m *bsp.GoldSrc30, index int, opts Options) (Mesh, []Diagnostic) {
	b := &faceBuilder{m: m, face: index}
	out := Mesh{Face: index, Texture: -1}
	if index < 0 || index >= len(m.Faces) {
		b.report(MissingFace, int64(index), "")
		return out, b.diags
	}
	f := &m.Faces[index]
	if int(f.PlaneIndex) >= len(m.Planes) {
		b.report(MissingPlane, int64(f.PlaneIndex), "")
		return out, b.diags
	}
	normal := m.Planes[f.PlaneIndex].Normal
	if math32.Abs(normal.Length()-1) > 1e-3 {
		normal = normal.Normalize()
	}
	if f.PlaneSide > 0 {
		normal = normal.Neg()
	}
	out.Normal = normal

	ti, tex, texIndex := b.texture(f)
	out.Texture = texIndex
	if opts.SkipSky && tex != nil && IsSky(tex.Name()) {
		return out, b.diags
	}

	pos := b.boundary(f)
	if len(pos) < 3 {
		b.report(Degenerate, int64(len(pos)), "less than 3 vertices")
		return out, b.diags
	}
	var light bsp.Lighting
	var lit bool
	if opts.Lighting {
		light, lit = b.lightSample(f)
	}

	n := len(pos)
	out.Positions = make([]vec.Vec3, n)
	out.Normals = make([]vec.Vec3, n)
	out.UVs = make([][2]float32, n)
	if lit {
		out.Colors = make([][3]uint8, n)
	}
	for i, p := range pos {
		j := n - 1 - i
		out.Positions[j] = p
		out.Normals[j] = normal
		out.UVs[j] = uv(p, ti, tex)
		if lit {
			out.Colors[j] = [3]uint8{light.R, light.G, light.B}
		}
	}
	out.Indices = Triangulate(n)
	return out, b.diags
}
