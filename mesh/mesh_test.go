// SPDX-License-Identifier: GPL-2.0-or-later

package mesh

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"goldsrc/bsp"
	"goldsrc/bsp/bsptest"
	"goldsrc/math/vec"
	"goldsrc/wad"
)

func TestTriangulate(t *testing.T) {
	for n := 0; n < 10; n++ {
		idx := Triangulate(n)
		if n < 3 {
			if len(idx) != 0 {
				t.Errorf("Triangulate(%d) = %v, want empty", n, idx)
			}
			continue
		}
		if len(idx) != 3*(n-2) {
			t.Errorf("Triangulate(%d) has %d indices, want %d", n, len(idx), 3*(n-2))
			continue
		}
		for i := 1; i < n-1; i++ {
			tri := idx[3*(i-1) : 3*i]
			if tri[0] != 0 || tri[1] != uint32(i) || tri[2] != uint32(i+1) {
				t.Errorf("Triangulate(%d) triangle %d = %v, want [0 %d %d]", n, i-1, tri, i, i+1)
			}
		}
	}
}

// triangleMap is a single triangle with a clockwise boundary when seen from
// +z and surfedge 2 walking its edge backwards.
func triangleMap() *bsptest.Builder {
	b := bsptest.New()
	b.Planes = []bsp.Plane{{Normal: vec.Vec3{0, 0, 1}, Type: bsp.PlaneZ}}
	b.Vertices = []bsp.Vertex{
		{Position: vec.Vec3{0, 0, 0}},
		{Position: vec.Vec3{0, 1, 0}},
		{Position: vec.Vec3{1, 0, 0}},
	}
	b.Edges = []bsp.Edge{{V: [2]uint32{0, 1}}, {V: [2]uint32{1, 2}}, {V: [2]uint32{0, 2}}}
	b.SurfEdges = []int32{0, 1, -2}
	b.Faces = []bsp.Face{{EdgeCount: 3, TexInfoIndex: 0xffff, LightmapOffset: bsp.NoLightmap}}
	b.Models = []bsp.Model{{HeadNodes: [4]int32{-1}, FaceCount: 1}}
	return b
}

func decode(t *testing.T, b *bsptest.Builder) *bsp.GoldSrc30 {
	t.Helper()
	d, err := bsp.NewDecoder(b.Reader())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	m, err := d.DecodeGoldSrc30()
	if err != nil {
		t.Fatalf("DecodeGoldSrc30: %v", err)
	}
	return m
}

func windingNormal(m *Mesh, tri int) vec.Vec3 {
	p0 := m.Positions[m.Indices[3*tri]]
	p1 := m.Positions[m.Indices[3*tri+1]]
	p2 := m.Positions[m.Indices[3*tri+2]]
	return vec.Cross(vec.Sub(p1, p0), vec.Sub(p2, p0))
}

func TestBuildFaceTriangle(t *testing.T) {
	m := decode(t, triangleMap())
	if len(m.Models) != 1 || len(m.Planes) != 1 || len(m.Vertices) != 3 || len(m.Edges) != 3 || len(m.SurfEdges) != 3 {
		t.Fatalf("decoded %d models %d planes %d vertices %d edges %d surfedges",
			len(m.Models), len(m.Planes), len(m.Vertices), len(m.Edges), len(m.SurfEdges))
	}
	me, diags := BuildFace(m, 0, Options{})
	if me.TriangleCount() != 1 {
		t.Fatalf("TriangleCount() = %v, want 1", me.TriangleCount())
	}
	for i, uv := range me.UVs {
		if uv != [2]float32{} {
			t.Errorf("UVs[%d] = %v, want zero", i, uv)
		}
	}
	want := []vec.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}}
	if !slices.Equal(me.Positions, want) {
		t.Errorf("Positions = %v, want %v", me.Positions, want)
	}
	if n := windingNormal(&me, 0); vec.Dot(n, me.Normal) <= 0 {
		t.Errorf("triangle normal %v points away from face normal %v", n, me.Normal)
	}
	for _, n := range me.Normals {
		if n != (vec.Vec3{0, 0, 1}) {
			t.Errorf("normal = %v, want (0,0,1)", n)
		}
	}
	if me.Colors != nil {
		t.Errorf("Colors = %v, want nil", me.Colors)
	}
	if me.Texture != -1 {
		t.Errorf("Texture = %v, want -1", me.Texture)
	}
	// the face has no texinfo
	if len(diags) != 1 || diags[0].Kind != MissingTexInfo {
		t.Errorf("diagnostics = %v, want one missing texinfo", diags)
	}
}

func TestBuildFacePlaneSide(t *testing.T) {
	b := triangleMap()
	b.Faces[0].PlaneSide = 1
	m := decode(t, b)
	me, _ := BuildFace(m, 0, Options{})
	if me.Normal != (vec.Vec3{0, 0, -1}) {
		t.Errorf("Normal = %v, want (0,0,-1)", me.Normal)
	}
}

// quad is a textured 64x32 square with 4 edges, wound clockwise from +z.
func quad() *bsp.GoldSrc30 {
	tex := bsp.Texture{RawName: bsptest.Name("wall"), Width: 64, Height: 32}
	return &bsp.GoldSrc30{
		Planes: []bsp.Plane{{Normal: vec.Vec3{0, 0, 1}, Dist: 8, Type: bsp.PlaneZ}},
		Vertices: []bsp.Vertex{
			{Position: vec.Vec3{0, 0, 8}},
			{Position: vec.Vec3{0, 32, 8}},
			{Position: vec.Vec3{64, 32, 8}},
			{Position: vec.Vec3{64, 0, 8}},
		},
		Edges: []bsp.Edge{
			{}, {V: [2]uint32{0, 1}}, {V: [2]uint32{1, 2}}, {V: [2]uint32{3, 2}}, {V: [2]uint32{3, 0}},
		},
		SurfEdges: []bsp.SurfEdge{1, 2, -3, 4},
		TexInfos: []bsp.TextureInfo{{
			SVector: vec.Vec3{1, 0, 0}, SShift: 16,
			TVector: vec.Vec3{0, -1, 0}, TShift: 0,
		}},
		Textures: []bsp.Texture{tex},
		Faces: []bsp.Face{{
			EdgeCount:      4,
			LightmapOffset: 6,
		}},
		Lighting: []bsp.Lighting{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
		Models:   []bsp.Model{{FaceCount: 1}},
	}
}

func TestBuildFaceQuad(t *testing.T) {
	m := quad()
	me, diags := BuildFace(m, 0, Options{Lighting: true})
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
	if me.TriangleCount() != 2 || len(me.Positions) != 4 {
		t.Fatalf("%d triangles, %d vertices, want 2, 4", me.TriangleCount(), len(me.Positions))
	}
	for i := 0; i < me.TriangleCount(); i++ {
		if n := windingNormal(&me, i); vec.Dot(n, me.Normal) <= 0 {
			t.Errorf("triangle %d is wound clockwise", i)
		}
	}
	// positions are reversed: v3, v2, v1, v0
	if me.Positions[0] != (vec.Vec3{64, 0, 8}) || me.Positions[3] != (vec.Vec3{0, 0, 8}) {
		t.Errorf("Positions = %v", me.Positions)
	}
	wantUV := [][2]float32{{80.0 / 64, 0}, {80.0 / 64, -1}, {16.0 / 64, -1}, {16.0 / 64, 0}}
	for i, uv := range me.UVs {
		if math32.Abs(uv[0]-wantUV[i][0]) > 1e-6 || math32.Abs(uv[1]-wantUV[i][1]) > 1e-6 {
			t.Errorf("UVs[%d] = %v, want %v", i, uv, wantUV[i])
		}
	}
	if me.Texture != 0 {
		t.Errorf("Texture = %v, want 0", me.Texture)
	}
	for i, c := range me.Colors {
		if c != [3]uint8{7, 8, 9} {
			t.Errorf("Colors[%d] = %v, want [7 8 9]", i, c)
		}
	}
	if len(me.Colors) != 4 {
		t.Errorf("len(Colors) = %v, want 4", len(me.Colors))
	}
}

func TestBuildFaceLightingOutOfRange(t *testing.T) {
	m := quad()
	m.Faces[0].LightmapOffset = 900
	me, diags := BuildFace(m, 0, Options{Lighting: true})
	if me.Colors != nil || len(diags) != 1 || diags[0].Kind != MissingLighting {
		t.Errorf("colors %v diagnostics %v", me.Colors, diags)
	}
	m.Faces[0].LightmapOffset = bsp.NoLightmap
	me, diags = BuildFace(m, 0, Options{Lighting: true})
	if me.Colors != nil || len(diags) != 0 {
		t.Errorf("no lightmap: colors %v diagnostics %v", me.Colors, diags)
	}
}

func TestBuildFaceLenient(t *testing.T) {
	tests := []struct {
		name      string
		change    func(m *bsp.GoldSrc30)
		kind      DiagnosticKind
		triangles int
	}{
		{"plane", func(m *bsp.GoldSrc30) { m.Faces[0].PlaneIndex = 5 }, MissingPlane, 0},
		{"texinfo", func(m *bsp.GoldSrc30) { m.Faces[0].TexInfoIndex = 3 }, MissingTexInfo, 2},
		{"texture", func(m *bsp.GoldSrc30) { m.TexInfos[0].TextureIndex = 3 }, MissingTexture, 2},
		{"surfedges", func(m *bsp.GoldSrc30) { m.Faces[0].FirstEdge = 2 }, MissingSurfEdge, 0},
		{"edge", func(m *bsp.GoldSrc30) { m.SurfEdges[3] = -9 }, MissingEdge, 1},
		{"vertex", func(m *bsp.GoldSrc30) { m.Edges[2].V[0] = 40 }, MissingVertex, 1},
		{"degenerate", func(m *bsp.GoldSrc30) { m.Faces[0].EdgeCount = 2 }, Degenerate, 0},
	}
	for _, tc := range tests {
		m := quad()
		tc.change(m)
		me, diags := BuildFace(m, 0, Options{})
		if !slices.ContainsFunc(diags, func(d Diagnostic) bool { return d.Kind == tc.kind }) {
			t.Errorf("%s: diagnostics %v miss %v", tc.name, diags, tc.kind)
		}
		if me.TriangleCount() != tc.triangles {
			t.Errorf("%s: %d triangles, want %d", tc.name, me.TriangleCount(), tc.triangles)
		}
	}
	if _, diags := BuildFace(quad(), 7, Options{}); len(diags) != 1 || diags[0].Kind != MissingFace {
		t.Errorf("BuildFace(7) diagnostics = %v", diags)
	}
}

func TestBuildFaceSkipSky(t *testing.T) {
	m := quad()
	m.Textures[0].RawName = bsptest.Name("SKY")
	if me, _ := BuildFace(m, 0, Options{SkipSky: true}); !me.Empty() {
		t.Errorf("sky face was built")
	}
	if me, _ := BuildFace(m, 0, Options{}); me.Empty() {
		t.Errorf("sky face was skipped without SkipSky")
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Face: 3, Kind: MissingEdge, Index: 12}
	if s := d.String(); s != "face 3: missing edge 12" {
		t.Errorf("String() = %q", s)
	}
	if s := DiagnosticKind(99).String(); s != "DiagnosticKind(99)" {
		t.Errorf("String() = %q", s)
	}
}

func wadWith(t *testing.T, tex *bsp.Texture) *wad.Table {
	t.Helper()
	rec := bsptest.EncodeTexture(tex)
	buf := &bytes.Buffer{}
	buf.WriteString("WAD3")
	le := func(v uint32) { buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}) }
	le(1)
	le(uint32(12 + len(rec)))
	buf.Write(rec)
	le(12)
	le(uint32(len(rec)))
	le(uint32(len(rec)))
	buf.Write([]byte{wad.TypMipTex, 0, 0, 0})
	name := tex.RawName
	buf.Write(name[:])
	a, err := wad.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("wad.Decode: %v", err)
	}
	return wad.NewTable(a)
}

func TestBuildModel(t *testing.T) {
	m := quad()
	// face 1 uses an embedded texture, face 2 one nobody has, face 3 is broken
	m.Faces = append(m.Faces, m.Faces[0], m.Faces[0], m.Faces[0])
	m.Faces[1].TexInfoIndex = 1
	m.Faces[2].TexInfoIndex = 2
	m.Faces[3].PlaneIndex = 8
	m.TexInfos = append(m.TexInfos, m.TexInfos[0], m.TexInfos[0])
	m.TexInfos[1].TextureIndex = 1
	m.TexInfos[2].TextureIndex = 2
	embedded := bsp.Texture{RawName: bsptest.Name("{grate"), Width: 1, Height: 1, MipOffsets: [4]uint32{40}, Mip: []byte{3}}
	embedded.Palette[3] = [3]byte{0, 0, 255}
	m.Textures = append(m.Textures, embedded, bsp.Texture{RawName: bsptest.Name("lost"), Width: 16, Height: 16})
	m.Models[0].FaceCount = 4

	wall := &bsp.Texture{RawName: bsptest.Name("WALL"), Width: 2, Height: 1, Mip: []byte{0, 1}}
	table := wadWith(t, wall)

	mdl, err := BuildModel(m, 0, table, Options{})
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if len(mdl.Meshes) != 3 || mdl.TriangleCount() != 6 {
		t.Errorf("%d meshes, %d triangles, want 3, 6", len(mdl.Meshes), mdl.TriangleCount())
	}
	if !slices.Equal(mdl.MissingTextures, []string{"lost"}) {
		t.Errorf("MissingTextures = %v, want [lost]", mdl.MissingTextures)
	}
	if len(mdl.Diagnostics) != 1 || mdl.Diagnostics[0].Kind != MissingPlane || mdl.Diagnostics[0].Face != 3 {
		t.Errorf("Diagnostics = %v", mdl.Diagnostics)
	}
	if mat := mdl.Materials[0]; mat == nil || !mat.External || mat.Image == nil || mat.Image.Width != 2 {
		t.Errorf("wall material = %+v", mat)
	}
	if mat := mdl.Materials[1]; mat == nil || mat.External || mat.Image == nil || !mat.Image.Transparent {
		t.Errorf("grate material = %+v", mat)
	}
	if mat := mdl.Materials[2]; mat == nil || mat.Image != nil {
		t.Errorf("lost material = %+v", mat)
	}
	if len(mdl.Images) != 2 {
		t.Errorf("%d images, want 2", len(mdl.Images))
	}
	if mdl.Mins != (vec.Vec3{0, 0, 8}) || mdl.Maxs != (vec.Vec3{64, 32, 8}) {
		t.Errorf("bounds = %v %v", mdl.Mins, mdl.Maxs)
	}

	if _, err := BuildModel(m, 1, table, Options{}); err == nil {
		t.Errorf("BuildModel(1) should fail")
	}
}

func TestBuildModelSharedImages(t *testing.T) {
	m := quad()
	// slot 1 names the same wad texture with other case
	m.Faces = append(m.Faces, m.Faces[0])
	m.Faces[1].TexInfoIndex = 1
	m.TexInfos = append(m.TexInfos, m.TexInfos[0])
	m.TexInfos[1].TextureIndex = 1
	m.Textures = append(m.Textures, bsp.Texture{RawName: bsptest.Name("Wall"), Width: 64, Height: 32})
	m.Models[0].FaceCount = 2

	table := wadWith(t, &bsp.Texture{RawName: bsptest.Name("WALL"), Width: 2, Height: 1, Mip: []byte{0, 1}})
	mdl, err := BuildModel(m, 0, table, Options{})
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	a, b := mdl.Materials[0], mdl.Materials[1]
	if a == nil || b == nil || a.Image == nil || b.Image == nil {
		t.Fatalf("Materials = %v", mdl.Materials)
	}
	if a.Image.ID != b.Image.ID {
		t.Errorf("wall and Wall use images %v and %v, want one", a.Image.ID, b.Image.ID)
	}
	if len(mdl.Images) != 1 || mdl.Images[a.Image.ID] != a.Image {
		t.Errorf("Images = %v, want only %v", mdl.Images, a.Image.ID)
	}
}

func TestBuildModelFaceRange(t *testing.T) {
	m := quad()
	m.Models[0].FaceCount = 5
	mdl, err := BuildModel(m, 0, nil, Options{})
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if len(mdl.Meshes) != 1 {
		t.Errorf("%d meshes, want 1", len(mdl.Meshes))
	}
	if len(mdl.Diagnostics) != 1 || mdl.Diagnostics[0].Kind != MissingFace {
		t.Errorf("Diagnostics = %v", mdl.Diagnostics)
	}
	if !slices.Equal(mdl.MissingTextures, []string{"wall"}) {
		t.Errorf("MissingTextures = %v, want [wall]", mdl.MissingTextures)
	}
}

func TestWriteOBJ(t *testing.T) {
	mdl, err := BuildModel(quad(), 0, nil, Options{})
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	buf := &bytes.Buffer{}
	if err := WriteOBJ(buf, mdl); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"g face0\n",
		"usemtl wall\n",
		"v 0 8 64\n",
		"vn 0 1 0\n",
		"f 1/1/1 2/2/2 3/3/3\n",
		"f 1/1/1 3/3/3 4/4/4\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("OBJ misses %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\nv "); n != 4 {
		t.Errorf("%d vertices, want 4", n)
	}
}
