package model

import (
	"math"
	"strconv"
	"strings"
)

// Transform is a row-major 4x3 affine transform: the first nine values form
// the 3x3 rotation/scale block, the last three the translation.
type Transform [12]float64

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}
}

// IsFinite reports whether every entry is a finite number.
func (t Transform) IsFinite() bool {
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Determinant returns the determinant of the upper-left 3x3 block.
func (t Transform) Determinant() float64 {
	return t[0]*(t[4]*t[8]-t[5]*t[7]) -
		t[1]*(t[3]*t[8]-t[5]*t[6]) +
		t[2]*(t[3]*t[7]-t[4]*t[6])
}

// IsSingular reports whether the upper-left 3x3 block is not invertible.
func (t Transform) IsSingular() bool {
	return t.Determinant() == 0
}

// Mul composes two transforms, applying u first and t second.
func (t Transform) Mul(u Transform) Transform {
	var r Transform
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = t[row*3+0]*u[0*3+col] + t[row*3+1]*u[1*3+col] + t[row*3+2]*u[2*3+col]
		}
	}
	for col := 0; col < 3; col++ {
		r[9+col] = t[9+0]*u[0*3+col] + t[9+1]*u[1*3+col] + t[9+2]*u[2*3+col] + u[9+col]
	}
	return r
}

// Apply transforms a vertex.
func (t Transform) Apply(v Vertex) Vertex {
	return Vertex{
		X: v.X*t[0] + v.Y*t[3] + v.Z*t[6] + t[9],
		Y: v.X*t[1] + v.Y*t[4] + v.Z*t[7] + t[10],
		Z: v.X*t[2] + v.Y*t[5] + v.Z*t[8] + t[11],
	}
}

// ParseTransform parses the 12 space-separated values of a transform
// attribute. It reports false for a wrong value count, a non-numeric or
// non-finite value, or a singular upper 3x3 block.
func ParseTransform(s string) (Transform, bool) {
	fields := strings.Fields(s)
	if len(fields) != 12 {
		return Transform{}, false
	}
	var t Transform
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Transform{}, false
		}
		t[i] = v
	}
	if !t.IsFinite() || t.IsSingular() {
		return Transform{}, false
	}
	return t, true
}

// String formats the transform as a 3MF transform attribute value.
func (t Transform) String() string {
	parts := make([]string, 12)
	for i, v := range t {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
