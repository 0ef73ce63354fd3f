// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"goldsrc/binread"
)

// GoldSrc30 is a decoded version 30 map. All slices are indexed the way the
// file indexes them.
type GoldSrc30 struct {
	Header       Header
	Entities     []*Entity
	Planes       []Plane
	Textures     []Texture
	Vertices     []Vertex
	Visibility   []byte // compressed pvs, not interpreted
	Nodes        []Node
	TexInfos     []TextureInfo
	Faces        []Face
	Lighting     []Lighting
	ClipNodes    []ClipNode
	Leaves       []Leaf
	MarkSurfaces []uint16 // face indices
	Edges        []Edge
	SurfEdges    []SurfEdge
	Models       []Model
}

func (*GoldSrc30) Version() Version { return VersionGoldSrc30 }
func (*GoldSrc30) isFormat()        {}

func decodeGoldSrc30(r *binread.Reader, h *Header) (*GoldSrc30, error) {
	m := &GoldSrc30{Header: *h}
	var err error

	entities, err := decodeRaw(r, h, LumpEntities)
	if err != nil {
		return nil, err
	}
	m.Entities = ParseEntities(entities)
	if m.Planes, err = decodeLump(r, h, LumpPlanes, planeSize, decodePlane); err != nil {
		return nil, err
	}
	if m.Textures, err = decodeTextures(r, h); err != nil {
		return nil, err
	}
	if m.Vertices, err = decodeLump(r, h, LumpVertices, vertexSize, decodeVertex); err != nil {
		return nil, err
	}
	if m.Visibility, err = decodeRaw(r, h, LumpVisibility); err != nil {
		return nil, err
	}
	if m.Nodes, err = decodeLump(r, h, LumpNodes, nodeSize, decodeNode); err != nil {
		return nil, err
	}
	if m.TexInfos, err = decodeLump(r, h, LumpTexInfo, texInfoSize, decodeTextureInfo); err != nil {
		return nil, err
	}
	if m.Faces, err = decodeLump(r, h, LumpFaces, faceSize, decodeFace); err != nil {
		return nil, err
	}
	if m.Lighting, err = decodeLump(r, h, LumpLighting, lightingSize, decodeLighting); err != nil {
		return nil, err
	}
	if m.ClipNodes, err = decodeLump(r, h, LumpClipNodes, clipNodeSize, decodeClipNode); err != nil {
		return nil, err
	}
	if m.Leaves, err = decodeLump(r, h, LumpLeaves, leafSize, decodeLeaf); err != nil {
		return nil, err
	}
	if m.MarkSurfaces, err = decodeLump(r, h, LumpMarkSurfaces, markSurfaceSize, decodeMarkSurface); err != nil {
		return nil, err
	}
	if m.Edges, err = decodeLump(r, h, LumpEdges, edgeSize, decodeEdge); err != nil {
		return nil, err
	}
	if m.SurfEdges, err = decodeLump(r, h, LumpSurfEdges, surfEdgeSize, decodeSurfEdge); err != nil {
		return nil, err
	}
	if m.Models, err = decodeLump(r, h, LumpModels, modelSize, decodeModel); err != nil {
		return nil, err
	}
	return m, nil
}

// WorldModel returns model 0, the static world geometry.
func (m *GoldSrc30) WorldModel() (*Model, error) {
	if len(m.Models) == 0 {
		return nil, errors.New("map has no models")
	}
	return &m.Models[0], nil
}

// Worldspawn returns the first entity with classname worldspawn.
func (m *GoldSrc30) Worldspawn() (*Entity, bool) {
	for _, e := range m.Entities {
		if n, _ := e.ClassName(); n == "worldspawn" {
			return e, true
		}
	}
	return nil, false
}

// EdgeVertices resolves surfedge i to its vertex ids in walking order.
func (m *GoldSrc30) EdgeVertices(i int) (uint32, uint32, error) {
	if i < 0 || i >= len(m.SurfEdges) {
		return 0, 0, errors.Errorf("surfedge %d out of range [0,%d)", i, len(m.SurfEdges))
	}
	ref := m.SurfEdges[i].Ref()
	if ref.Edge >= len(m.Edges) {
		return 0, 0, errors.Errorf("surfedge %d: edge %d out of range [0,%d)", i, ref.Edge, len(m.Edges))
	}
	a, b := ref.Vertices(m.Edges[ref.Edge])
	return a, b, nil
}

func (m *GoldSrc30) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s map\n", m.Version())
	counts := []struct {
		lump LumpType
		n    int
	}{
		{LumpEntities, len(m.Entities)},
		{LumpPlanes, len(m.Planes)},
		{LumpTextures, len(m.Textures)},
		{LumpVertices, len(m.Vertices)},
		{LumpVisibility, len(m.Visibility)},
		{LumpNodes, len(m.Nodes)},
		{LumpTexInfo, len(m.TexInfos)},
		{LumpFaces, len(m.Faces)},
		{LumpLighting, len(m.Lighting)},
		{LumpClipNodes, len(m.ClipNodes)},
		{LumpLeaves, len(m.Leaves)},
		{LumpMarkSurfaces, len(m.MarkSurfaces)},
		{LumpEdges, len(m.Edges)},
		{LumpSurfEdges, len(m.SurfEdges)},
		{LumpModels, len(m.Models)},
	}
	for _, c := range counts {
		fmt.Fprintf(&b, "  %-13s %d\n", c.lump, c.n)
	}
	return b.String()
}
