// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"github.com/gogpu/vroverlay/vr"
)

// ControllerState is the button and axis state of one controller.
type ControllerState struct {
	TriggerPressed  bool
	TriggerValue    float64
	GripPressed     bool
	TouchpadPressed bool
	TouchpadX       float64
	TouchpadY       float64
	JoystickPressed bool
	JoystickX       float64
	JoystickY       float64
}

func checkDeviceIndex(index uint32) error {
	if index >= vr.MaxTrackedDeviceCount {
		return invalidArg("Invalid device index %d", index)
	}
	return nil
}

// ControllerIDs returns the tracked device indices of all controllers.
func (m *Manager) ControllerIDs() ([]uint32, error) {
	sys, err := m.systemAPI()
	if err != nil {
		return nil, err
	}
	var ids []uint32
	for i := uint32(0); i < vr.MaxTrackedDeviceCount; i++ {
		if sys.GetTrackedDeviceClass(vr.TrackedDeviceIndex(i)) == vr.DeviceClassController {
			ids = append(ids, i)
		}
	}
	return ids, nil
}

// ControllerPose returns the device's pose in the standing universe as a
// row-major 4x4 matrix. The result is empty when the device is not
// tracked or not connected.
func (m *Manager) ControllerPose(index uint32) ([]float64, error) {
	sys, err := m.systemAPI()
	if err != nil {
		return nil, err
	}
	if err := checkDeviceIndex(index); err != nil {
		return nil, err
	}
	sys.GetDeviceToAbsoluteTrackingPose(vr.TrackingOriginStanding, 0, m.poses[:])

	p := &m.poses[index]
	if !p.PoseIsValid || !p.DeviceIsConnected {
		return []float64{}, nil
	}
	for _, row := range p.DeviceToAbsoluteTracking {
		for _, v := range row {
			if !finite32(v) {
				return []float64{}, nil
			}
		}
	}
	return matrix16(p.DeviceToAbsoluteTracking), nil
}

// ControllerState returns the controller's buttons and axes. A device that
// reports no state yields the zero ControllerState.
//
// When action input is initialized, the trigger and grip buttons follow
// the bound actions instead of the raw button bits: the hand's own source
// is consulted first, then any source.
func (m *Manager) ControllerState(index uint32) (ControllerState, error) {
	sys, err := m.systemAPI()
	if err != nil {
		return ControllerState{}, err
	}
	if err := checkDeviceIndex(index); err != nil {
		return ControllerState{}, err
	}

	var st ControllerState
	if raw, ok := sys.GetControllerState(vr.TrackedDeviceIndex(index)); ok {
		st = controllerStateFromRaw(raw)
	}
	if m.input != nil && m.actions.initialized {
		m.overrideDigital(sys.GetControllerRoleForTrackedDeviceIndex(vr.TrackedDeviceIndex(index)), &st)
	}
	return st, nil
}

func controllerStateFromRaw(raw vr.ControllerState) ControllerState {
	pressed := func(bit uint64) bool { return raw.ButtonPressed&bit != 0 }
	return ControllerState{
		TriggerPressed:  pressed(vr.ButtonTrigger),
		TriggerValue:    float64(raw.Axis[vr.AxisTrigger].X),
		GripPressed:     pressed(vr.ButtonGrip),
		TouchpadPressed: pressed(vr.ButtonTouchpad),
		TouchpadX:       float64(raw.Axis[vr.AxisTouchpad].X),
		TouchpadY:       float64(raw.Axis[vr.AxisTouchpad].Y),
		JoystickPressed: pressed(vr.ButtonJoystick),
		JoystickX:       float64(raw.Axis[vr.AxisJoystick].X),
		JoystickY:       float64(raw.Axis[vr.AxisJoystick].Y),
	}
}

// overrideDigital replaces the trigger and grip bits with the state of the
// bound actions. Each is taken from the first source whose query succeeds
// with an active action.
func (m *Manager) overrideDigital(role vr.ControllerRole, st *ControllerState) {
	preferred := vr.InvalidInputValueHandle
	switch role {
	case vr.ControllerRoleLeftHand:
		preferred = m.actions.leftHand
	case vr.ControllerRoleRightHand:
		preferred = m.actions.rightHand
	}
	sources := []vr.InputValueHandle{vr.InvalidInputValueHandle}
	if preferred != vr.InvalidInputValueHandle {
		sources = []vr.InputValueHandle{preferred, vr.InvalidInputValueHandle}
	}

	var triggerDone, gripDone bool
	for _, src := range sources {
		if !triggerDone {
			if d, err := m.input.GetDigitalActionData(m.actions.trigger, src); err == nil && d.Active {
				st.TriggerPressed = d.State
				triggerDone = true
			}
		}
		if !gripDone {
			if d, err := m.input.GetDigitalActionData(m.actions.grip, src); err == nil && d.Active {
				st.GripPressed = d.State
				gripDone = true
			}
		}
		if triggerDone && gripDone {
			break
		}
	}
}
