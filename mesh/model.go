// SPDX-License-Identifier: GPL-2.0-or-later

package mesh

import (
	"slices"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"goldsrc/bsp"
	"goldsrc/conlog"
	"goldsrc/math/vec"
	"goldsrc/palette"
	"goldsrc/wad"
)

// Material is a texture used by at least one face of a model.
type Material struct {
	Texture int
	Name    string
	// External is set if the pixels come from a wad.
	External bool
	// Image is nil if the texture could not be found. Materials with the same
	// source texture share it.
	Image *palette.Image
}

type Model struct {
	Index     int
	Meshes    []Mesh
	Materials map[int]*Material
	// MissingTextures are the sorted names of external textures that no wad
	// provided.
	MissingTextures []string
	// Images are the distinct images of Materials by their ID.
	Images      map[uuid.UUID]*palette.Image
	Diagnostics []Diagnostic
	Mins, Maxs  vec.Vec3
}

func (m *Model) TriangleCount() int {
	n := 0
	for i := range m.Meshes {
		n += m.Meshes[i].TriangleCount()
	}
	return n
}

// BuildModel builds all faces of model index of m. External textures are
// looked up in table, which may be nil. Only an invalid model index is an
// error, problems with single faces end up in Diagnostics.
func BuildModel(m *bsp.GoldSrc30, index int, table *wad.Table, opts Options) (*Model, error) {
	if index < 0 || index >= len(m.Models) {
		return nil, errors.Errorf("model %d out of range [0,%d)", index, len(m.Models))
	}
	src := &m.Models[index]
	out := &Model{
		Index:     index,
		Materials: make(map[int]*Material),
		Images:    make(map[uuid.UUID]*palette.Image),
	}
	// texture slots that resolve to the same wad texture share one image
	images := make(map[*bsp.Texture]*palette.Image)

	first := int(src.FirstFace)
	last := first + int(src.FaceCount)
	if first < 0 || src.FaceCount < 0 || last > len(m.Faces) {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Face:  first,
			Kind:  MissingFace,
			Index: int64(last),
			Note:  "model face range outside of the face lump",
		})
		first = max(0, min(first, len(m.Faces)))
		last = max(first, min(last, len(m.Faces)))
	}

	missing := make(map[string]bool)
	noBounds := true
	for fi := first; fi < last; fi++ {
		mesh, diags := BuildFace(m, fi, opts)
		out.Diagnostics = append(out.Diagnostics, diags...)
		if mesh.Empty() {
			continue
		}
		if mesh.Texture >= 0 {
			if _, ok := out.Materials[mesh.Texture]; !ok {
				mat, diag := material(m, mesh.Texture, table, images)
				if diag != nil {
					diag.Face = fi
					out.Diagnostics = append(out.Diagnostics, *diag)
				}
				if mat.Image == nil && mat.External && mat.Name != "" {
					missing[mat.Name] = true
				}
				out.Materials[mesh.Texture] = mat
				if mat.Image != nil {
					out.Images[mat.Image.ID] = mat.Image
				}
			}
		}
		for _, p := range mesh.Positions {
			if noBounds {
				out.Mins, out.Maxs = p, p
				noBounds = false
				continue
			}
			out.Mins, out.Maxs = vec.Bounds(out.Mins, out.Maxs, p)
		}
		out.Meshes = append(out.Meshes, mesh)
	}

	for n := range missing {
		out.MissingTextures = append(out.MissingTextures, n)
	}
	slices.Sort(out.MissingTextures)
	for _, d := range out.Diagnostics {
		conlog.Warn("face problem", "model", index, "face", d.Face, "kind", d.Kind, "index", d.Index)
	}
	if len(out.MissingTextures) > 0 {
		conlog.Warn("missing textures", "model", index, "textures", out.MissingTextures)
	}
	conlog.Debug("built model", "model", index, "meshes", len(out.Meshes), "triangles", out.TriangleCount())
	return out, nil
}

// material resolves texture i, from the map itself or from table. images
// caches the materialized source textures.
func material(m *bsp.GoldSrc30, i int, table *wad.Table, images map[*bsp.Texture]*palette.Image) (*Material, *Diagnostic) {
	t := &m.Textures[i]
	mat := &Material{Texture: i, Name: t.Name(), External: !t.Embedded()}
	src := t
	if mat.External {
		if mat.Name == "" {
			return mat, &Diagnostic{Kind: MissingTexture, Index: int64(i), Note: "texture slot without data"}
		}
		wt, ok := table.Lookup(mat.Name)
		if !ok {
			return mat, nil
		}
		src = wt
	}
	if img, ok := images[src]; ok {
		mat.Image = img
		return mat, nil
	}
	img, err := palette.Materialize(src)
	if err != nil {
		return mat, &Diagnostic{Kind: BadTexture, Index: int64(i), Note: err.Error()}
	}
	images[src] = img
	mat.Image = img
	return mat, nil
}
