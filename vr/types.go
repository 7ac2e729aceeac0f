// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vr

// Token is the opaque value returned by Runtime.Init.
type Token uintptr

// ApplicationType selects how the runtime treats the process.
type ApplicationType int32

const (
	ApplicationOther      ApplicationType = 0
	ApplicationScene      ApplicationType = 1
	ApplicationOverlay    ApplicationType = 2
	ApplicationBackground ApplicationType = 3
	ApplicationUtility    ApplicationType = 4
)

// OverlayHandle identifies an overlay owned by the compositor.
type OverlayHandle uint64

// InvalidOverlayHandle is never returned by CreateOverlay.
const InvalidOverlayHandle OverlayHandle = 0

// Action-input handles. Zero is invalid for all of them; an invalid
// InputValueHandle passed as a restriction means "any source".
type (
	ActionSetHandle  uint64
	ActionHandle     uint64
	InputValueHandle uint64
)

const (
	InvalidActionSetHandle  ActionSetHandle  = 0
	InvalidActionHandle     ActionHandle     = 0
	InvalidInputValueHandle InputValueHandle = 0
)

// TrackedDeviceIndex indexes the runtime's tracked device table.
type TrackedDeviceIndex uint32

const (
	// MaxTrackedDeviceCount is the size of the tracked device table.
	MaxTrackedDeviceCount = 64

	// HMDDeviceIndex is always the headset.
	HMDDeviceIndex TrackedDeviceIndex = 0
)

// DeviceClass describes what a tracked device is.
type DeviceClass int32

const (
	DeviceClassInvalid           DeviceClass = 0
	DeviceClassHMD               DeviceClass = 1
	DeviceClassController        DeviceClass = 2
	DeviceClassGenericTracker    DeviceClass = 3
	DeviceClassTrackingReference DeviceClass = 4
	DeviceClassDisplayRedirect   DeviceClass = 5
)

// ControllerRole is the hand a controller is assigned to.
type ControllerRole int32

const (
	ControllerRoleInvalid   ControllerRole = 0
	ControllerRoleLeftHand  ControllerRole = 1
	ControllerRoleRightHand ControllerRole = 2
	ControllerRoleOptOut    ControllerRole = 3
	ControllerRoleTreadmill ControllerRole = 4
	ControllerRoleStylus    ControllerRole = 5
)

// TrackingOrigin selects the universe poses are expressed in.
type TrackingOrigin int32

const (
	TrackingOriginSeated             TrackingOrigin = 0
	TrackingOriginStanding           TrackingOrigin = 1
	TrackingOriginRawAndUncalibrated TrackingOrigin = 2
)

// TransformType reports how an overlay is currently positioned.
type TransformType int32

const (
	TransformInvalid               TransformType = -1
	TransformAbsolute              TransformType = 0
	TransformTrackedDeviceRelative TransformType = 1
	TransformSystemOverlay         TransformType = 2
	TransformTrackedComponent      TransformType = 3
	TransformCursor                TransformType = 4
	TransformDashboardTab          TransformType = 5
	TransformDashboardThumb        TransformType = 6
	TransformMountable             TransformType = 7
	TransformProjection            TransformType = 8
	TransformSubview               TransformType = 9
)

// Matrix34 is a row-major 3x4 affine transform. The implied bottom row is
// [0 0 0 1].
type Matrix34 [3][4]float32

// Identity34 is the identity transform.
var Identity34 = Matrix34{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
}

// Vector2 and Vector3 are plain float32 vectors.
type (
	Vector2 [2]float32
	Vector3 [3]float32
)

// TrackedDevicePose is one entry of the pose table.
type TrackedDevicePose struct {
	DeviceToAbsoluteTracking Matrix34
	Velocity                 Vector3
	AngularVelocity          Vector3
	TrackingResult           int32
	PoseIsValid              bool
	DeviceIsConnected        bool
}

// ControllerAxis is one analog axis pair.
type ControllerAxis struct {
	X, Y float32
}

// ControllerAxisCount is the number of axes in ControllerState.
const ControllerAxisCount = 5

// ControllerState is the legacy button/axis snapshot of a controller.
type ControllerState struct {
	PacketNum     uint32
	ButtonPressed uint64
	ButtonTouched uint64
	Axis          [ControllerAxisCount]ControllerAxis
}

// Button bits used by vroverlay.
const (
	ButtonGrip     uint64 = 1 << 2
	ButtonTouchpad uint64 = 1 << 32
	ButtonTrigger  uint64 = 1 << 33
	ButtonJoystick uint64 = 1 << 34
)

// Axis indices used by vroverlay.
const (
	AxisTouchpad = 0
	AxisTrigger  = 1
	AxisJoystick = 2
)

// TextureType names the graphics API a texture handle belongs to.
type TextureType int32

const (
	TextureTypeInvalid   TextureType = -1
	TextureTypeDirectX   TextureType = 0
	TextureTypeOpenGL    TextureType = 1
	TextureTypeVulkan    TextureType = 2
	TextureTypeIOSurface TextureType = 3
	TextureTypeDirectX12 TextureType = 4
	TextureTypeMetal     TextureType = 6
)

// ColorSpace tells the compositor how to interpret texel values.
type ColorSpace int32

const (
	ColorSpaceAuto   ColorSpace = 0
	ColorSpaceGamma  ColorSpace = 1
	ColorSpaceLinear ColorSpace = 2
)

// Texture is a GPU texture handed to the compositor.
type Texture struct {
	Handle     uintptr
	Type       TextureType
	ColorSpace ColorSpace
}

// TextureBounds selects the sub-rectangle of a texture shown on an overlay.
type TextureBounds struct {
	UMin, VMin, UMax, VMax float32
}

// FullTextureBounds shows the whole texture.
var FullTextureBounds = TextureBounds{UMin: 0, VMin: 0, UMax: 1, VMax: 1}

// IntersectionParams describes a ray cast against an overlay.
type IntersectionParams struct {
	Source    Vector3
	Direction Vector3
	Origin    TrackingOrigin
}

// IntersectionResults is the hit reported by ComputeOverlayIntersection.
type IntersectionResults struct {
	Point    Vector3
	Normal   Vector3
	UV       Vector2
	Distance float32
}

// ActiveActionSet is one entry passed to UpdateActionState.
type ActiveActionSet struct {
	ActionSet          ActionSetHandle
	RestrictedToDevice InputValueHandle
	SecondaryActionSet ActionSetHandle
	Priority           int32
}

// DigitalActionData is the state of a boolean action.
type DigitalActionData struct {
	Active       bool
	State        bool
	Changed      bool
	ActiveOrigin InputValueHandle
}

// BindingInfo describes one binding of an action.
type BindingInfo struct {
	DevicePathName  string
	InputPathName   string
	ModeName        string
	SlotName        string
	InputSourceType string
}
