// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vr defines the contract between vroverlay and a VR compositor
// runtime.
//
// The runtime is an external collaborator: it owns the session, the overlay
// compositor, the tracking system and the action-based input layer. vroverlay
// only ever talks to it through the interfaces in this package, so a native
// binding, a remote bridge or the in-process simulator in vr/vrsim can all
// stand behind a Manager.
//
// Interface versions are plain strings (for example "FnTable:IVROverlay_028")
// so that hosts can pin the exact function-table revision they were built
// against.
package vr

// Runtime is the session-level entry point of a VR runtime.
//
// Init and Shutdown must be paired: vroverlay calls Init once when the first
// Manager is created and Shutdown once when the last one is closed.
type Runtime interface {
	// IsHmdPresent reports whether a headset is attached. It is cheap and
	// may be called without an initialized session.
	IsHmdPresent() bool

	// Init starts a session for the given application type.
	// The returned error, if any, is an InitError.
	Init(app ApplicationType) (Token, error)

	// Shutdown ends the session started by Init.
	Shutdown()

	// Overlay returns the overlay interface for the given version.
	Overlay(version string) (Overlay, error)

	// System returns the system interface for the given version.
	System(version string) (System, error)

	// Input returns the action-input interface for the given version.
	Input(version string) (Input, error)
}

// Overlay is the compositor's overlay interface.
//
// Methods returning error report an OverlayError on failure.
type Overlay interface {
	CreateOverlay(key, name string) (OverlayHandle, error)
	DestroyOverlay(h OverlayHandle) error
	ShowOverlay(h OverlayHandle) error
	HideOverlay(h OverlayHandle) error
	IsOverlayVisible(h OverlayHandle) bool

	SetOverlayWidthInMeters(h OverlayHandle, meters float32) error
	SetOverlayTextureBounds(h OverlayHandle, bounds TextureBounds) error
	SetOverlayTexture(h OverlayHandle, tex Texture) error
	SetOverlayRaw(h OverlayHandle, buf []byte, width, height, bytesPerPixel uint32) error
	SetOverlayFromFile(h OverlayHandle, path string) error

	SetOverlayTransformTrackedDeviceRelative(h OverlayHandle, device TrackedDeviceIndex, m Matrix34) error
	GetOverlayTransformTrackedDeviceRelative(h OverlayHandle) (TrackedDeviceIndex, Matrix34, error)
	SetOverlayTransformAbsolute(h OverlayHandle, origin TrackingOrigin, m Matrix34) error
	GetOverlayTransformAbsolute(h OverlayHandle) (TrackingOrigin, Matrix34, error)
	GetOverlayTransformType(h OverlayHandle) (TransformType, error)

	// ComputeOverlayIntersection casts a ray against the overlay quad.
	// The boolean is false when the ray misses.
	ComputeOverlayIntersection(h OverlayHandle, params IntersectionParams) (IntersectionResults, bool)
}

// System is the tracking/device interface.
type System interface {
	GetTrackedDeviceClass(index TrackedDeviceIndex) DeviceClass
	GetControllerRoleForTrackedDeviceIndex(index TrackedDeviceIndex) ControllerRole

	// GetControllerState fills the legacy button/axis state of a controller.
	// It returns false when the index is not a connected controller.
	GetControllerState(index TrackedDeviceIndex) (ControllerState, bool)

	// GetDeviceToAbsoluteTrackingPose writes up to len(poses) poses,
	// indexed by tracked device index.
	GetDeviceToAbsoluteTrackingPose(origin TrackingOrigin, predictedSecondsFromNow float32, poses []TrackedDevicePose)
}

// Input is the action-based input interface.
//
// Methods returning error report an InputError on failure.
type Input interface {
	SetActionManifestPath(path string) error
	GetActionSetHandle(name string) (ActionSetHandle, error)
	GetActionHandle(name string) (ActionHandle, error)
	GetInputSourceHandle(path string) (InputValueHandle, error)

	UpdateActionState(sets []ActiveActionSet) error
	GetDigitalActionData(action ActionHandle, restrictToDevice InputValueHandle) (DigitalActionData, error)

	// GetActionBindingInfo returns at most limit bindings. When more exist the
	// first limit are returned together with InputErrorBufferTooSmall.
	GetActionBindingInfo(action ActionHandle, limit int) ([]BindingInfo, error)

	OpenBindingUI(appKey string, set ActionSetHandle, device InputValueHandle, showOnDesktop bool) error
}
