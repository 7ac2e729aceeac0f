// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"fmt"

	"github.com/gogpu/vroverlay/vr"
)

// IntersectionResult is where a ray hit an overlay, in the standing
// universe, with the texture coordinates of the hit.
type IntersectionResult struct {
	X, Y, Z  float64
	U, V     float64
	Distance float64
}

// CreateOverlay creates an overlay with a unique key and a display name.
func (m *Manager) CreateOverlay(key, name string) (Handle, error) {
	ov, err := m.overlayAPI()
	if err != nil {
		return InvalidHandle, err
	}
	h, err := ov.CreateOverlay(key, name)
	if err != nil {
		return InvalidHandle, callErr("CreateOverlay", err)
	}
	return handleFromRuntime(h)
}

// DestroyOverlay removes the overlay from the compositor.
func (m *Manager) DestroyOverlay(h Handle) error {
	return m.overlayCall("DestroyOverlay", h, vr.Overlay.DestroyOverlay)
}

// ShowOverlay makes the overlay visible.
func (m *Manager) ShowOverlay(h Handle) error {
	return m.overlayCall("ShowOverlay", h, vr.Overlay.ShowOverlay)
}

// HideOverlay hides the overlay.
func (m *Manager) HideOverlay(h Handle) error {
	return m.overlayCall("HideOverlay", h, vr.Overlay.HideOverlay)
}

// ToggleOverlay hides a visible overlay and shows a hidden one.
func (m *Manager) ToggleOverlay(h Handle) error {
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	rh, err := h.runtime()
	if err != nil {
		return err
	}
	if ov.IsOverlayVisible(rh) {
		return callErr("HideOverlay", ov.HideOverlay(rh))
	}
	return callErr("ShowOverlay", ov.ShowOverlay(rh))
}

// IsOverlayVisible reports whether the overlay is shown. Unknown overlays
// are reported as hidden.
func (m *Manager) IsOverlayVisible(h Handle) (bool, error) {
	ov, err := m.overlayAPI()
	if err != nil {
		return false, err
	}
	rh, err := h.runtime()
	if err != nil {
		return false, err
	}
	return ov.IsOverlayVisible(rh), nil
}

// SetOverlayWidth sets the overlay's width in meters. The height follows
// from the texture's aspect ratio.
func (m *Manager) SetOverlayWidth(h Handle, meters float64) error {
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	rh, err := h.runtime()
	if err != nil {
		return err
	}
	w, err := toFloat32("width", meters)
	if err != nil {
		return err
	}
	return callErr("SetOverlayWidthInMeters", ov.SetOverlayWidthInMeters(rh, w))
}

// SetOverlayTextureBounds selects the part of the texture that is shown.
// Swapping min and max flips the texture.
func (m *Manager) SetOverlayTextureBounds(h Handle, uMin, vMin, uMax, vMax float64) error {
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	rh, err := h.runtime()
	if err != nil {
		return err
	}
	var b [4]float32
	for i, v := range [4]float64{uMin, vMin, uMax, vMax} {
		if b[i], err = toFloat32("texture bound", v); err != nil {
			return err
		}
	}
	bounds := vr.TextureBounds{UMin: b[0], VMin: b[1], UMax: b[2], VMax: b[3]}
	return callErr("SetOverlayTextureBounds", ov.SetOverlayTextureBounds(rh, bounds))
}

// ComputeOverlayIntersection casts a ray given in the standing universe
// against the overlay. The boolean is false when the ray misses.
func (m *Manager) ComputeOverlayIntersection(h Handle, source, direction []float64) (IntersectionResult, bool, error) {
	ov, err := m.overlayAPI()
	if err != nil {
		return IntersectionResult{}, false, err
	}
	rh, err := h.runtime()
	if err != nil {
		return IntersectionResult{}, false, err
	}
	src, err := vec3("source", source)
	if err != nil {
		return IntersectionResult{}, false, err
	}
	dir, err := vec3("direction", direction)
	if err != nil {
		return IntersectionResult{}, false, err
	}

	res, hit := ov.ComputeOverlayIntersection(rh, vr.IntersectionParams{
		Source:    src,
		Direction: dir,
		Origin:    vr.TrackingOriginStanding,
	})
	if !hit {
		return IntersectionResult{}, false, nil
	}
	return IntersectionResult{
		X:        float64(res.Point[0]),
		Y:        float64(res.Point[1]),
		Z:        float64(res.Point[2]),
		U:        float64(res.UV[0]),
		V:        float64(res.UV[1]),
		Distance: float64(res.Distance),
	}, true, nil
}

// SetOverlayFromFile asks the runtime to load an image file into the
// overlay. Decoding happens in the runtime.
func (m *Manager) SetOverlayFromFile(h Handle, path string) error {
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	rh, err := h.runtime()
	if err != nil {
		return err
	}
	if err := ov.SetOverlayFromFile(rh, path); err != nil {
		return fmt.Errorf("%w (path: %s)", callErr("SetOverlayFromFile", err), path)
	}
	return nil
}

func (m *Manager) overlayCall(op string, h Handle, call func(vr.Overlay, vr.OverlayHandle) error) error {
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	rh, err := h.runtime()
	if err != nil {
		return err
	}
	return callErr(op, call(ov, rh))
}
