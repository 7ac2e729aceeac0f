// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrsim

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/gogpu/vroverlay/vr"
)

// Limits enforced by the simulated compositor.
const (
	MaxOverlayKeyLength  = 256
	MaxOverlayNameLength = 128
	MaxOverlayCount      = 128
)

// OverlayState is a snapshot of one simulated overlay.
type OverlayState struct {
	Key     string
	Name    string
	Visible bool
	Width   float32
	Bounds  vr.TextureBounds

	Texture    vr.Texture
	TextureSet int

	Raw                 []byte
	RawWidth, RawHeight uint32
	File                string

	TransformType  vr.TransformType
	Origin         vr.TrackingOrigin
	Absolute       vr.Matrix34
	RelativeDevice vr.TrackedDeviceIndex
	Relative       vr.Matrix34
}

// Overlay is the simulated vr.Overlay.
type Overlay struct {
	mu       sync.Mutex
	system   *System
	next     vr.OverlayHandle
	overlays map[vr.OverlayHandle]*OverlayState
	keys     map[string]vr.OverlayHandle
	faults   map[string]vr.OverlayError
}

var _ vr.Overlay = (*Overlay)(nil)

func newOverlay(system *System) *Overlay {
	return &Overlay{
		system:   system,
		overlays: make(map[vr.OverlayHandle]*OverlayState),
		keys:     make(map[string]vr.OverlayHandle),
		faults:   make(map[string]vr.OverlayError),
	}
}

// Fail makes the named method (for example "ShowOverlay") return code.
// Pass vr.OverlayErrorNone to clear.
func (o *Overlay) Fail(method string, code vr.OverlayError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if code == vr.OverlayErrorNone {
		delete(o.faults, method)
		return
	}
	o.faults[method] = code
}

// State returns a copy of the overlay's state.
func (o *Overlay) State(h vr.OverlayHandle) (OverlayState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.overlays[h]
	if !ok {
		return OverlayState{}, false
	}
	cp := *s
	cp.Raw = append([]byte(nil), s.Raw...)
	return cp, true
}

// Count returns the number of live overlays.
func (o *Overlay) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.overlays)
}

// get returns the overlay after applying fault injection. Callers hold o.mu.
func (o *Overlay) get(method string, h vr.OverlayHandle) (*OverlayState, error) {
	if code, ok := o.faults[method]; ok {
		return nil, code
	}
	s, ok := o.overlays[h]
	if !ok {
		return nil, vr.OverlayErrorUnknownOverlay
	}
	return s, nil
}

func (o *Overlay) CreateOverlay(key, name string) (vr.OverlayHandle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if code, ok := o.faults["CreateOverlay"]; ok {
		return vr.InvalidOverlayHandle, code
	}
	switch {
	case len(key) >= MaxOverlayKeyLength:
		return vr.InvalidOverlayHandle, vr.OverlayErrorKeyTooLong
	case len(name) >= MaxOverlayNameLength:
		return vr.InvalidOverlayHandle, vr.OverlayErrorNameTooLong
	case key == "":
		return vr.InvalidOverlayHandle, vr.OverlayErrorInvalidParameter
	}
	if _, taken := o.keys[key]; taken {
		return vr.InvalidOverlayHandle, vr.OverlayErrorKeyInUse
	}
	if len(o.overlays) >= MaxOverlayCount {
		return vr.InvalidOverlayHandle, vr.OverlayErrorOverlayLimitExceeded
	}
	o.next++
	h := o.next
	o.overlays[h] = &OverlayState{
		Key:           key,
		Name:          name,
		Width:         1,
		Bounds:        vr.FullTextureBounds,
		TransformType: vr.TransformAbsolute,
		Origin:        vr.TrackingOriginStanding,
		Absolute:      vr.Identity34,
		Relative:      vr.Identity34,
	}
	o.keys[key] = h
	return h, nil
}

func (o *Overlay) DestroyOverlay(h vr.OverlayHandle) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("DestroyOverlay", h)
	if err != nil {
		return err
	}
	delete(o.keys, s.Key)
	delete(o.overlays, h)
	return nil
}

func (o *Overlay) ShowOverlay(h vr.OverlayHandle) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("ShowOverlay", h)
	if err != nil {
		return err
	}
	s.Visible = true
	return nil
}

func (o *Overlay) HideOverlay(h vr.OverlayHandle) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("HideOverlay", h)
	if err != nil {
		return err
	}
	s.Visible = false
	return nil
}

func (o *Overlay) IsOverlayVisible(h vr.OverlayHandle) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.overlays[h]
	return ok && s.Visible
}

func (o *Overlay) SetOverlayWidthInMeters(h vr.OverlayHandle, meters float32) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("SetOverlayWidthInMeters", h)
	if err != nil {
		return err
	}
	if meters <= 0 || math32.IsNaN(meters) || math32.IsInf(meters, 0) {
		return vr.OverlayErrorInvalidParameter
	}
	s.Width = meters
	return nil
}

func (o *Overlay) SetOverlayTextureBounds(h vr.OverlayHandle, bounds vr.TextureBounds) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("SetOverlayTextureBounds", h)
	if err != nil {
		return err
	}
	s.Bounds = bounds
	return nil
}

func (o *Overlay) SetOverlayTexture(h vr.OverlayHandle, tex vr.Texture) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("SetOverlayTexture", h)
	if err != nil {
		return err
	}
	if tex.Handle == 0 || tex.Type == vr.TextureTypeInvalid {
		return vr.OverlayErrorInvalidTexture
	}
	s.Texture = tex
	s.TextureSet++
	return nil
}

func (o *Overlay) SetOverlayRaw(h vr.OverlayHandle, buf []byte, width, height, bytesPerPixel uint32) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("SetOverlayRaw", h)
	if err != nil {
		return err
	}
	if bytesPerPixel != 1 && bytesPerPixel != 3 && bytesPerPixel != 4 {
		return vr.OverlayErrorInvalidParameter
	}
	if uint64(len(buf)) < uint64(width)*uint64(height)*uint64(bytesPerPixel) {
		return vr.OverlayErrorInvalidParameter
	}
	s.Raw = append(s.Raw[:0], buf...)
	s.RawWidth, s.RawHeight = width, height
	return nil
}

func (o *Overlay) SetOverlayFromFile(h vr.OverlayHandle, path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("SetOverlayFromFile", h)
	if err != nil {
		return err
	}
	if path == "" {
		return vr.OverlayErrorUnableToLoadFile
	}
	s.File = path
	return nil
}

func (o *Overlay) SetOverlayTransformTrackedDeviceRelative(h vr.OverlayHandle, device vr.TrackedDeviceIndex, m vr.Matrix34) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("SetOverlayTransformTrackedDeviceRelative", h)
	if err != nil {
		return err
	}
	if device >= vr.MaxTrackedDeviceCount {
		return vr.OverlayErrorInvalidTrackedDevice
	}
	s.TransformType = vr.TransformTrackedDeviceRelative
	s.RelativeDevice = device
	s.Relative = m
	return nil
}

func (o *Overlay) GetOverlayTransformTrackedDeviceRelative(h vr.OverlayHandle) (vr.TrackedDeviceIndex, vr.Matrix34, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("GetOverlayTransformTrackedDeviceRelative", h)
	if err != nil {
		return 0, vr.Matrix34{}, err
	}
	if s.TransformType != vr.TransformTrackedDeviceRelative {
		return 0, vr.Matrix34{}, vr.OverlayErrorWrongTransformType
	}
	return s.RelativeDevice, s.Relative, nil
}

func (o *Overlay) SetOverlayTransformAbsolute(h vr.OverlayHandle, origin vr.TrackingOrigin, m vr.Matrix34) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("SetOverlayTransformAbsolute", h)
	if err != nil {
		return err
	}
	s.TransformType = vr.TransformAbsolute
	s.Origin = origin
	s.Absolute = m
	return nil
}

func (o *Overlay) GetOverlayTransformAbsolute(h vr.OverlayHandle) (vr.TrackingOrigin, vr.Matrix34, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("GetOverlayTransformAbsolute", h)
	if err != nil {
		return 0, vr.Matrix34{}, err
	}
	if s.TransformType != vr.TransformAbsolute {
		return 0, vr.Matrix34{}, vr.OverlayErrorWrongTransformType
	}
	return s.Origin, s.Absolute, nil
}

func (o *Overlay) GetOverlayTransformType(h vr.OverlayHandle) (vr.TransformType, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, err := o.get("GetOverlayTransformType", h)
	if err != nil {
		return vr.TransformInvalid, err
	}
	return s.TransformType, nil
}

// ComputeOverlayIntersection intersects the ray with the overlay quad. The
// quad lies in the overlay's local XY plane, centred on the origin, facing
// +Z, Width meters wide with the aspect ratio of the last raw image (square
// when none was set). UV (0,0) is the top-left corner.
func (o *Overlay) ComputeOverlayIntersection(h vr.OverlayHandle, params vr.IntersectionParams) (vr.IntersectionResults, bool) {
	o.mu.Lock()
	s, ok := o.overlays[h]
	if !ok {
		o.mu.Unlock()
		return vr.IntersectionResults{}, false
	}
	world := s.Absolute
	relative := s.TransformType == vr.TransformTrackedDeviceRelative
	device, local := s.RelativeDevice, s.Relative
	width := s.Width
	height := width
	if s.RawWidth > 0 && s.RawHeight > 0 {
		height = width * float32(s.RawHeight) / float32(s.RawWidth)
	}
	o.mu.Unlock()

	if relative {
		pose, valid := o.system.pose(device)
		if !valid {
			return vr.IntersectionResults{}, false
		}
		world = multiply34(pose, local)
	}

	src := inverseTransformPoint(world, params.Source)
	dir := inverseTransformVector(world, params.Direction)
	if math32.Abs(dir[2]) < 1e-6 {
		return vr.IntersectionResults{}, false
	}
	t := -src[2] / dir[2]
	if t < 0 {
		return vr.IntersectionResults{}, false
	}
	x := src[0] + dir[0]*t
	y := src[1] + dir[1]*t
	if math32.Abs(x) > width/2 || math32.Abs(y) > height/2 {
		return vr.IntersectionResults{}, false
	}

	d := params.Direction
	length := math32.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	return vr.IntersectionResults{
		Point:    transformPoint(world, vr.Vector3{x, y, 0}),
		Normal:   transformVector(world, vr.Vector3{0, 0, 1}),
		UV:       vr.Vector2{x/width + 0.5, 0.5 - y/height},
		Distance: t * length,
	}, true
}

func transformPoint(m vr.Matrix34, p vr.Vector3) vr.Vector3 {
	var out vr.Vector3
	for r := 0; r < 3; r++ {
		out[r] = m[r][0]*p[0] + m[r][1]*p[1] + m[r][2]*p[2] + m[r][3]
	}
	return out
}

func transformVector(m vr.Matrix34, v vr.Vector3) vr.Vector3 {
	var out vr.Vector3
	for r := 0; r < 3; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2]
	}
	return out
}

// inverseTransformPoint assumes m is rigid (orthonormal rotation).
func inverseTransformPoint(m vr.Matrix34, p vr.Vector3) vr.Vector3 {
	return inverseTransformVector(m, vr.Vector3{p[0] - m[0][3], p[1] - m[1][3], p[2] - m[2][3]})
}

func inverseTransformVector(m vr.Matrix34, v vr.Vector3) vr.Vector3 {
	var out vr.Vector3
	for c := 0; c < 3; c++ {
		out[c] = m[0][c]*v[0] + m[1][c]*v[1] + m[2][c]*v[2]
	}
	return out
}

func multiply34(a, b vr.Matrix34) vr.Matrix34 {
	var out vr.Matrix34
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = a[r][0]*b[0][c] + a[r][1]*b[1][c] + a[r][2]*b[2][c]
		}
		out[r][3] += a[r][3]
	}
	return out
}
