// SPDX-License-Identifier: GPL-2.0-or-later

package mesh

import (
	"bufio"
	"fmt"
	"io"

	"goldsrc/math/vec"
)

// objAxes maps map coordinates (z up) to y up. The permutation is cyclic so
// the winding stays counter-clockwise.
func objAxes(v vec.Vec3) vec.Vec3 {
	return vec.Vec3{X: v.Y, Y: v.Z, Z: v.X}
}

// WriteOBJ writes all meshes of m as Wavefront OBJ. Every mesh becomes a
// group; usemtl names the texture.
func WriteOBJ(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# model %d, %d faces, %d triangles\n", m.Index, len(m.Meshes), m.TriangleCount())
	base := 1
	for i := range m.Meshes {
		me := &m.Meshes[i]
		fmt.Fprintf(bw, "g face%d\n", me.Face)
		if mat, ok := m.Materials[me.Texture]; ok && mat.Name != "" {
			fmt.Fprintf(bw, "usemtl %s\n", mat.Name)
		}
		for _, p := range me.Positions {
			p = objAxes(p)
			fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		for _, t := range me.UVs {
			fmt.Fprintf(bw, "vt %g %g\n", t[0], 1-t[1])
		}
		for _, n := range me.Normals {
			n = objAxes(n)
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
		for j := 0; j+2 < len(me.Indices); j += 3 {
			a := base + int(me.Indices[j])
			b := base + int(me.Indices[j+1])
			c := base + int(me.Indices[j+2])
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
		base += len(me.Positions)
	}
	return bw.Flush()
}
