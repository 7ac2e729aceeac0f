// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/vroverlay/vr"
	"github.com/gogpu/vroverlay/vr/vrsim"
)

func TestTransformAbsoluteRoundTrip(t *testing.T) {
	rt := vrsim.New()
	m := testManager(t, rt, nil, WithoutGPU())
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	in := []float64{
		1, 0, 0, 0.5,
		0, 0.5, -0.5, 1.25,
		0, 0.5, 0.5, -2,
		9, 9, 9, 9, // ignored
	}
	require.NoError(t, m.SetOverlayTransformAbsolute(h, in))

	st := overlayState(t, rt, h)
	assert.Equal(t, vr.TrackingOriginStanding, st.Origin)

	got, err := m.OverlayTransformAbsolute(h)
	require.NoError(t, err)
	want := append(append([]float64(nil), in[:12]...), 0, 0, 0, 1)
	assert.Equal(t, want, got)

	tt, err := m.OverlayTransformType(h)
	require.NoError(t, err)
	assert.Equal(t, vr.TransformAbsolute, tt)
}

func TestTransformHMD(t *testing.T) {
	m := testManager(t, vrsim.New(), nil, WithoutGPU())
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	require.NoError(t, m.SetOverlayTransformHMD(h, 2))

	tt, err := m.OverlayTransformType(h)
	require.NoError(t, err)
	assert.Equal(t, vr.TransformTrackedDeviceRelative, tt)

	rel, err := m.OverlayTransformRelative(h)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), rel.TrackedDeviceIndex)
	assert.Equal(t, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, -2,
		0, 0, 0, 1,
	}, rel.Transform)

	// The absolute transform is not defined for a relative overlay.
	_, err = m.OverlayTransformAbsolute(h)
	var ce *CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "GetOverlayTransformAbsolute", ce.Op)
	assert.ErrorIs(t, err, vr.OverlayErrorWrongTransformType)
}

func TestTransformRelativeOnAbsoluteOverlay(t *testing.T) {
	m := testManager(t, vrsim.New(), nil, WithoutGPU())
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	_, err = m.OverlayTransformRelative(h)
	assert.ErrorIs(t, err, vr.OverlayErrorWrongTransformType)
}

func TestTransformValidation(t *testing.T) {
	rt := vrsim.New()
	m := testManager(t, rt, nil, WithoutGPU())
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	identity := func() []float64 {
		return []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	}
	nan := identity()
	nan[3] = math.NaN()
	inf := identity()
	inf[5] = math.Inf(-1)
	huge := identity()
	huge[11] = 1e39

	tests := []struct {
		name string
		m    []float64
	}{
		{"short", identity()[:12]},
		{"long", append(identity(), 0)},
		{"nil", nil},
		{"nan", nan},
		{"inf", inf},
		{"float32 overflow", huge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, m.SetOverlayTransformAbsolute(h, tt.m), ErrInvalidArgument)
		})
	}
	assert.Equal(t, vr.Identity34, overlayState(t, rt, h).Absolute)

	assert.ErrorIs(t, m.SetOverlayTransformHMD(h, math.NaN()), ErrInvalidArgument)
}
