// SPDX-License-Identifier: GPL-2.0-or-later

package mesh

import "fmt"

type DiagnosticKind int

const (
	MissingFace DiagnosticKind = iota
	MissingPlane
	MissingTexInfo
	MissingTexture
	MissingSurfEdge
	MissingEdge
	MissingVertex
	MissingLighting
	BadTexture
	Degenerate
)

var kindNames = [...]string{
	"missing face", "missing plane", "missing texinfo", "missing texture",
	"missing surfedge", "missing edge", "missing vertex", "missing lighting",
	"bad texture", "degenerate face",
}

func (k DiagnosticKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
	return kindNames[k]
}

// Diagnostic is a problem with one face that did not stop the build.
type Diagnostic struct {
	Face  int
	Kind  DiagnosticKind
	Index int64 // the reference that could not be resolved
	Note  string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("face %d: %s %d", d.Face, d.Kind, d.Index)
	if d.Note != "" {
		s += ": " + d.Note
	}
	return s
}
