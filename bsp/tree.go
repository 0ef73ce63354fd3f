// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"slices"

	"github.com/pkg/errors"

	"goldsrc/math/vec"
)

func (m *GoldSrc30) model(i int) (*Model, error) {
	if i < 0 || i >= len(m.Models) {
		return nil, errors.Errorf("model %d out of range [0,%d)", i, len(m.Models))
	}
	return &m.Models[i], nil
}

// ReachableLeaves returns the sorted indices of all leaves below the head node
// of the given model. Every leaf is listed once.
func (m *GoldSrc30) ReachableLeaves(model int) ([]int, error) {
	mdl, err := m.model(model)
	if err != nil {
		return nil, err
	}
	start := childRef(mdl.HeadNodes[0])
	switch start.Kind {
	case ChildEmpty:
		return nil, nil
	case ChildLeaf:
		if start.Index >= len(m.Leaves) {
			return nil, errors.Errorf("model %d: leaf %d out of range [0,%d)", model, start.Index, len(m.Leaves))
		}
		return []int{start.Index}, nil
	}

	seenNodes := make(map[int]bool)
	seenLeaves := make(map[int]bool)
	stack := []int{start.Index}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n >= len(m.Nodes) {
			return nil, errors.Errorf("model %d: node %d out of range [0,%d)", model, n, len(m.Nodes))
		}
		if seenNodes[n] {
			continue
		}
		seenNodes[n] = true
		node := &m.Nodes[n]
		for side := range node.Children {
			c := node.Child(side)
			switch c.Kind {
			case ChildNode:
				stack = append(stack, c.Index)
			case ChildLeaf:
				if c.Index >= len(m.Leaves) {
					return nil, errors.Errorf("node %d: leaf %d out of range [0,%d)", n, c.Index, len(m.Leaves))
				}
				seenLeaves[c.Index] = true
			}
		}
	}
	leaves := make([]int, 0, len(seenLeaves))
	for l := range seenLeaves {
		leaves = append(leaves, l)
	}
	slices.Sort(leaves)
	return leaves, nil
}

// LeafFaces returns the face indices listed by the marksurfaces of a leaf.
func (m *GoldSrc30) LeafFaces(leaf int) ([]int, error) {
	if leaf < 0 || leaf >= len(m.Leaves) {
		return nil, errors.Errorf("leaf %d out of range [0,%d)", leaf, len(m.Leaves))
	}
	l := &m.Leaves[leaf]
	first := int(l.FirstMarkSurface)
	last := first + int(l.MarkSurfaceCount)
	if last > len(m.MarkSurfaces) {
		return nil, errors.Errorf("leaf %d: marksurfaces [%d,%d) out of range [0,%d)",
			leaf, first, last, len(m.MarkSurfaces))
	}
	faces := make([]int, 0, last-first)
	for _, f := range m.MarkSurfaces[first:last] {
		if int(f) >= len(m.Faces) {
			return nil, errors.Errorf("leaf %d: face %d out of range [0,%d)", leaf, f, len(m.Faces))
		}
		faces = append(faces, int(f))
	}
	return faces, nil
}

// VisibleFaces returns the sorted union of the faces of all leaves reachable
// from the given model.
func (m *GoldSrc30) VisibleFaces(model int) ([]int, error) {
	leaves, err := m.ReachableLeaves(model)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	for _, l := range leaves {
		faces, err := m.LeafFaces(l)
		if err != nil {
			return nil, err
		}
		for _, f := range faces {
			seen[f] = true
		}
	}
	faces := make([]int, 0, len(seen))
	for f := range seen {
		faces = append(faces, f)
	}
	slices.Sort(faces)
	return faces, nil
}

// PointInLeaf descends from the head node of the given model and returns the
// leaf containing p. ok is false if p ends in an empty child.
func (m *GoldSrc30) PointInLeaf(p vec.Vec3, model int) (leaf int, ok bool, err error) {
	mdl, err := m.model(model)
	if err != nil {
		return 0, false, err
	}
	c := childRef(mdl.HeadNodes[0])
	// a valid tree cannot be deeper than it has nodes
	for steps := 0; steps <= len(m.Nodes); steps++ {
		switch c.Kind {
		case ChildEmpty:
			return 0, false, nil
		case ChildLeaf:
			if c.Index >= len(m.Leaves) {
				return 0, false, errors.Errorf("leaf %d out of range [0,%d)", c.Index, len(m.Leaves))
			}
			return c.Index, true, nil
		}
		if c.Index >= len(m.Nodes) {
			return 0, false, errors.Errorf("node %d out of range [0,%d)", c.Index, len(m.Nodes))
		}
		n := &m.Nodes[c.Index]
		if int(n.PlaneIndex) >= len(m.Planes) {
			return 0, false, errors.Errorf("node %d: plane %d out of range [0,%d)", c.Index, n.PlaneIndex, len(m.Planes))
		}
		plane := &m.Planes[n.PlaneIndex]
		d := vec.Dot(p, plane.Normal) - plane.Dist
		if d > 0 {
			c = n.Child(0)
		} else {
			c = n.Child(1)
		}
	}
	return 0, false, errors.New("node cycle")
}
