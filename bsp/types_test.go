// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"

	"goldsrc/binread"
)

func TestHeaderSize(t *testing.T) {
	if s := binary.Size(Header{}); s != 132 {
		t.Errorf("binary.Size(Header{}) = %v, want 132", s)
	}
}

func TestRecordSizes(t *testing.T) {
	tests := []struct {
		v    any
		want int
	}{
		{faceRecord{}, faceSize},
		{modelRecord{}, modelSize},
		{Node{}, nodeSize},
		{leafRecord{}, leafSize},
		{ClipNode{}, clipNodeSize},
		{Lighting{}, lightingSize},
	}
	for _, tc := range tests {
		if s := binary.Size(tc.v); s != tc.want {
			t.Errorf("binary.Size(%T) = %v, want %v", tc.v, s, tc.want)
		}
	}
}

func TestReadHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, int32(30))
	for i := 0; i < NumLumps; i++ {
		binary.Write(buf, binary.LittleEndian, [2]int32{int32(1000 + i), int32(10 * i)})
	}
	h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Ident != 30 {
		t.Errorf("Ident = %v, want 30", h.Ident)
	}
	for i, l := range h.Lumps {
		want := Lump{Offset: int32(1000 + i), Length: int32(10 * i)}
		if l != want {
			t.Errorf("Lumps[%s] = %v, want %v", LumpType(i), l, want)
		}
	}
}

func TestReadHeaderShort(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, int32(30))
	binary.Write(buf, binary.LittleEndian, [3]int32{})
	if _, err := ReadHeader(bytes.NewReader(buf.Bytes())); err == nil {
		t.Errorf("ReadHeader on truncated directory should fail")
	}
}

func TestSurfEdgeRef(t *testing.T) {
	edges := []Edge{{V: [2]uint32{0, 0}}, {V: [2]uint32{4, 7}}, {V: [2]uint32{7, 9}}}
	tests := []struct {
		s      SurfEdge
		a, b   uint32
		edge   int
		revers bool
	}{
		{1, 4, 7, 1, false},
		{-1, 7, 4, 1, true},
		{2, 7, 9, 2, false},
		{-2, 9, 7, 2, true},
		{0, 0, 0, 0, false},
	}
	for _, tc := range tests {
		ref := tc.s.Ref()
		if ref.Edge != tc.edge || ref.Reversed != tc.revers {
			t.Errorf("SurfEdge(%d).Ref() = %+v, want {%d %v}", tc.s, ref, tc.edge, tc.revers)
		}
		a, b := ref.Vertices(edges[ref.Edge])
		if a != tc.a || b != tc.b {
			t.Errorf("SurfEdge(%d) vertices = (%d,%d), want (%d,%d)", tc.s, a, b, tc.a, tc.b)
		}
	}
}

func TestChildRef(t *testing.T) {
	tests := []struct {
		c    int32
		want ChildRef
	}{
		{0, ChildRef{Kind: ChildNode, Index: 0}},
		{5, ChildRef{Kind: ChildNode, Index: 5}},
		{-1, ChildRef{Kind: ChildEmpty}},
		{-2, ChildRef{Kind: ChildLeaf, Index: 1}},
		{-10, ChildRef{Kind: ChildLeaf, Index: 9}},
		{-32768, ChildRef{Kind: ChildLeaf, Index: 32767}},
	}
	for _, tc := range tests {
		if got := childRef(tc.c); got != tc.want {
			t.Errorf("childRef(%d) = %+v, want %+v", tc.c, got, tc.want)
		}
	}
	n := Node{Children: [2]int16{3, -4}}
	if got := n.Child(0); got != (ChildRef{Kind: ChildNode, Index: 3}) {
		t.Errorf("Child(0) = %+v", got)
	}
	if got := n.Child(1); got != (ChildRef{Kind: ChildLeaf, Index: 3}) {
		t.Errorf("Child(1) = %+v", got)
	}
}

func TestContents(t *testing.T) {
	if s := ContentsSky.String(); s != "Sky" {
		t.Errorf("ContentsSky.String() = %q, want Sky", s)
	}
	if s := ContentsTranslucent.String(); s != "Translucent" {
		t.Errorf("ContentsTranslucent.String() = %q, want Translucent", s)
	}
	if ContentsTranslucent != -15 {
		t.Errorf("ContentsTranslucent = %d, want -15", ContentsTranslucent)
	}
	if Contents(0).valid() || Contents(-16).valid() {
		t.Errorf("0 and -16 should not be valid contents")
	}
}

func TestCString(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("abc\x00def"), "abc"},
		{[]byte("abc"), "abc"},
		{[]byte{0, 'a'}, ""},
	}
	for _, tc := range tests {
		if got := CString(tc.in); got != tc.want {
			t.Errorf("CString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func lumpHeader(offset, length int32) *Header {
	h := &Header{Ident: Ident30}
	h.Lumps[LumpVertices] = Lump{Offset: offset, Length: length}
	h.Lumps[LumpEdges] = Lump{Offset: offset + length, Length: 4}
	return h
}

func TestDecodeLumpTruncates(t *testing.T) {
	buf := &bytes.Buffer{}
	// two vertices and 5 bytes that do not make a third one
	binary.Write(buf, binary.LittleEndian, [6]float32{1, 2, 3, 4, 5, 6})
	buf.Write([]byte{0xff, 0xff, 0xff, 0xff, 0xff})
	// followed by one edge
	binary.Write(buf, binary.LittleEndian, [2]uint16{1, 0})
	h := lumpHeader(0, 29)

	r := binread.NewReader(bytes.NewReader(buf.Bytes()))
	vs, err := decodeLump(r, h, LumpVertices, vertexSize, decodeVertex)
	if err != nil {
		t.Fatalf("decodeLump: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("len(vertices) = %v, want 2", len(vs))
	}
	if off, _ := r.Offset(); off != 24 {
		t.Errorf("offset after lump = %v, want 24", off)
	}
	es, err := decodeLump(r, h, LumpEdges, edgeSize, decodeEdge)
	if err != nil {
		t.Fatalf("decodeLump edges: %v", err)
	}
	if len(es) != 1 || es[0].V != [2]uint32{1, 0} {
		t.Errorf("edges = %v, want [{[1 0]}]", es)
	}
}

func TestDecodeLumpCounts(t *testing.T) {
	for l := int32(0); l < 40; l++ {
		r := binread.NewReader(bytes.NewReader(make([]byte, 64)))
		vs, err := decodeLump(r, lumpHeader(0, l), LumpVertices, vertexSize, decodeVertex)
		if err != nil {
			t.Fatalf("decodeLump(length %d): %v", l, err)
		}
		if want := int(l) / vertexSize; len(vs) != want {
			t.Errorf("decodeLump(length %d) = %d records, want %d", l, len(vs), want)
		}
	}
}

func TestDecodeLumpNegative(t *testing.T) {
	r := binread.NewReader(bytes.NewReader(make([]byte, 64)))
	if _, err := decodeLump(r, lumpHeader(0, -12), LumpVertices, vertexSize, decodeVertex); err == nil {
		t.Errorf("negative lump length should fail")
	}
}

func TestDecodePlaneInvalidType(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, [4]float32{0, 0, 1, 0})
	binary.Write(buf, binary.LittleEndian, int32(6))
	_, err := decodePlane(binread.NewReader(bytes.NewReader(buf.Bytes())))
	var ive *InvalidValueError
	if !errors.As(err, &ive) || ive.Value != 6 {
		t.Errorf("decodePlane(type 6) = %v, want InvalidValueError", err)
	}
}

func TestDecodeLeafInvalidContents(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, leafRecord{Contents: -20})
	_, err := decodeLeaf(binread.NewReader(bytes.NewReader(buf.Bytes())))
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("decodeLeaf(contents -20) = %v, want ErrInvalidValue", err)
	}
}
