// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/gogpu/vroverlay/vr"
)

// MatrixLen is the number of elements of a host-side transform: a row-major
// 4x4 matrix whose bottom row is ignored on input and synthesized as
// [0 0 0 1] on output.
const MatrixLen = 16

// toFloat32 narrows a host value, rejecting NaN, infinities and values
// outside the float32 range.
func toFloat32(name string, v float64) (float32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math32.MaxFloat32 {
		return 0, invalidArg("%s must be a finite float32, got %v", name, v)
	}
	return float32(v), nil
}

func vec3(name string, values []float64) (vr.Vector3, error) {
	var out vr.Vector3
	if len(values) != 3 {
		return out, invalidArg("%s must have length 3", name)
	}
	for i, v := range values {
		f, err := toFloat32(name, v)
		if err != nil {
			return out, err
		}
		out[i] = f
	}
	return out, nil
}

// matrix34 converts the top three rows of a row-major 4x4 matrix.
func matrix34(name string, m []float64) (vr.Matrix34, error) {
	var out vr.Matrix34
	if len(m) != MatrixLen {
		return out, invalidArg("%s must have %d elements, got %d", name, MatrixLen, len(m))
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			f, err := toFloat32(name, m[r*4+c])
			if err != nil {
				return out, err
			}
			out[r][c] = f
		}
	}
	return out, nil
}

// matrix16 expands m to a row-major 4x4 matrix with bottom row [0 0 0 1].
func matrix16(m vr.Matrix34) []float64 {
	out := make([]float64, MatrixLen)
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = float64(m[r][c])
		}
	}
	out[15] = 1
	return out
}

// finite32 reports whether f is neither NaN nor infinite.
func finite32(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
