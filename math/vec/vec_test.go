// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"testing"
)

var (
	NULL = Vec3{}
)

func TestBasics(t *testing.T) {
	v := VFromA([3]float32{1, 2, 3})
	if v.Idx(0) != 1 || v.Idx(1) != 2 || v.Idx(2) != 3 {
		t.Errorf("Vector construction is not obvious")
	}
	if v.Array() != [3]float32{1, 2, 3} {
		t.Errorf("Array() = %v", v.Array())
	}
}

func TestLength(t *testing.T) {
	if NULL.Length() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	for _, v := range []Vec3{{2, 2, 1}, {2, 1, 2}, {1, 2, 2}} {
		if v.Length() != 3 {
			t.Errorf("%v Length is not 3", v)
		}
	}
}

func TestAdd(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := Add(NULL, v)
	if v != got {
		t.Errorf("Adding a null vector changed the vector")
	}
	got = Add(v, v)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Add(%v,%v) = %v want %v", v, v, got, want)
	}
}

func TestSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := Sub(v, v)
	if got != NULL {
		t.Errorf("Sub(%v,%v) = %v want %v", v, v, got, NULL)
	}
}

func TestNeg(t *testing.T) {
	v := Vec3{1, -2, 3}
	want := Vec3{-1, 2, -3}
	if got := v.Neg(); got != want {
		t.Errorf("Neg(%v) = %v want %v", v, got, want)
	}
}

func TestCross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	want := Vec3{0, 0, 1}
	if got := Cross(x, y); got != want {
		t.Errorf("Cross(%v,%v) = %v want %v", x, y, got, want)
	}
}

func TestNormalize(t *testing.T) {
	v := Vec3{0, 3, 0}
	want := Vec3{0, 1, 0}
	if got := v.Normalize(); got != want {
		t.Errorf("Normalize(%v) = %v want %v", v, got, want)
	}
	if got := NULL.Normalize(); got != NULL {
		t.Errorf("Normalize(%v) = %v want %v", NULL, got, NULL)
	}
}

func TestBounds(t *testing.T) {
	mins, maxs := Vec3{0, 0, 0}, Vec3{1, 1, 1}
	mins, maxs = Bounds(mins, maxs, Vec3{-1, 2, 0.5})
	if mins != (Vec3{-1, 0, 0}) || maxs != (Vec3{1, 2, 1}) {
		t.Errorf("Bounds = %v %v", mins, maxs)
	}
}
