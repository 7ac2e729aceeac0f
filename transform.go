// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"github.com/gogpu/vroverlay/vr"
)

// RelativeTransform is an overlay transform relative to a tracked device.
type RelativeTransform struct {
	TrackedDeviceIndex uint32
	Transform          []float64 // row-major 4x4
}

// SetOverlayTransformHMD pins the overlay in front of the headset at the
// given distance in meters.
func (m *Manager) SetOverlayTransformHMD(h Handle, distance float64) error {
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	rh, err := h.runtime()
	if err != nil {
		return err
	}
	d, err := toFloat32("distance", distance)
	if err != nil {
		return err
	}
	t := vr.Identity34
	t[2][3] = -d
	return callErr("SetOverlayTransformTrackedDeviceRelative",
		ov.SetOverlayTransformTrackedDeviceRelative(rh, vr.HMDDeviceIndex, t))
}

// SetOverlayTransformAbsolute places the overlay in the standing universe.
// m is a row-major 4x4 matrix; its bottom row is ignored. The matrix is
// passed to the runtime as given.
func (m *Manager) SetOverlayTransformAbsolute(h Handle, matrix []float64) error {
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	rh, err := h.runtime()
	if err != nil {
		return err
	}
	t, err := matrix34("matrix", matrix)
	if err != nil {
		return err
	}
	return callErr("SetOverlayTransformAbsolute",
		ov.SetOverlayTransformAbsolute(rh, vr.TrackingOriginStanding, t))
}

// OverlayTransformAbsolute returns the overlay's absolute transform as a
// row-major 4x4 matrix.
func (m *Manager) OverlayTransformAbsolute(h Handle) ([]float64, error) {
	ov, err := m.overlayAPI()
	if err != nil {
		return nil, err
	}
	rh, err := h.runtime()
	if err != nil {
		return nil, err
	}
	_, t, err := ov.GetOverlayTransformAbsolute(rh)
	if err != nil {
		return nil, callErr("GetOverlayTransformAbsolute", err)
	}
	return matrix16(t), nil
}

// OverlayTransformType reports how the overlay is positioned.
func (m *Manager) OverlayTransformType(h Handle) (vr.TransformType, error) {
	ov, err := m.overlayAPI()
	if err != nil {
		return vr.TransformInvalid, err
	}
	rh, err := h.runtime()
	if err != nil {
		return vr.TransformInvalid, err
	}
	tt, err := ov.GetOverlayTransformType(rh)
	if err != nil {
		return vr.TransformInvalid, callErr("GetOverlayTransformType", err)
	}
	return tt, nil
}

// OverlayTransformRelative returns the device-relative transform of an
// overlay positioned with SetOverlayTransformHMD or a similar call.
func (m *Manager) OverlayTransformRelative(h Handle) (RelativeTransform, error) {
	ov, err := m.overlayAPI()
	if err != nil {
		return RelativeTransform{}, err
	}
	rh, err := h.runtime()
	if err != nil {
		return RelativeTransform{}, err
	}
	dev, t, err := ov.GetOverlayTransformTrackedDeviceRelative(rh)
	if err != nil {
		return RelativeTransform{}, callErr("GetOverlayTransformTrackedDeviceRelative", err)
	}
	return RelativeTransform{
		TrackedDeviceIndex: uint32(dev),
		Transform:          matrix16(t),
	}, nil
}
