// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/vroverlay/vr"
	"github.com/gogpu/vroverlay/vr/vrsim"
)

var leftPose = vr.TrackedDevicePose{
	DeviceToAbsoluteTracking: vr.Matrix34{
		{1, 0, 0, -0.25},
		{0, 1, 0, 1},
		{0, 0, 1, -0.5},
	},
	PoseIsValid:       true,
	DeviceIsConnected: true,
}

func withControllers(rt *vrsim.Runtime) {
	rt.SimSystem().SetDevice(1, vrsim.Device{Class: vr.DeviceClassController, Role: vr.ControllerRoleLeftHand, Pose: leftPose})
	rt.SimSystem().SetDevice(3, vrsim.Device{Class: vr.DeviceClassController, Role: vr.ControllerRoleRightHand})
	rt.SimSystem().SetDevice(4, vrsim.Device{Class: vr.DeviceClassTrackingReference})
}

func TestControllerIDs(t *testing.T) {
	rt := vrsim.New()
	withControllers(rt)
	m := testManager(t, rt, nil, WithoutGPU())

	ids, err := m.ControllerIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 3}, ids)
}

func TestControllerPose(t *testing.T) {
	rt := vrsim.New()
	withControllers(rt)
	m := testManager(t, rt, nil, WithoutGPU())

	pose, err := m.ControllerPose(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{
		1, 0, 0, -0.25,
		0, 1, 0, 1,
		0, 0, 1, -0.5,
		0, 0, 0, 1,
	}, pose)

	pose, err = m.ControllerPose(3)
	require.NoError(t, err, "untracked device is not an error")
	assert.NotNil(t, pose)
	assert.Empty(t, pose)

	rt.SimSystem().UpdateDevice(1, func(d *vrsim.Device) { d.Pose.DeviceIsConnected = false })
	pose, err = m.ControllerPose(1)
	require.NoError(t, err)
	assert.Empty(t, pose)

	rt.SimSystem().UpdateDevice(1, func(d *vrsim.Device) {
		d.Pose.DeviceIsConnected = true
		d.Pose.DeviceToAbsoluteTracking[0][3] = float32(math.NaN())
	})
	pose, err = m.ControllerPose(1)
	require.NoError(t, err)
	assert.Empty(t, pose, "non-finite pose is reported as untracked")

	calls := rt.SimSystem().PoseCalls()
	_, err = m.ControllerPose(vr.MaxTrackedDeviceCount)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, calls, rt.SimSystem().PoseCalls(), "invalid index never reaches the runtime")
}

func TestControllerPoseReadsCurrentPose(t *testing.T) {
	rt := vrsim.New()
	withControllers(rt)
	m := testManager(t, rt, nil, WithoutGPU())

	_, err := m.ControllerPose(1)
	require.NoError(t, err)
	rt.SimSystem().UpdateDevice(1, func(d *vrsim.Device) {
		d.Pose.DeviceToAbsoluteTracking[0][3] = 0.75
	})

	pose, err := m.ControllerPose(1)
	require.NoError(t, err)
	require.Len(t, pose, MatrixLen)
	assert.Equal(t, 0.75, pose[3])
	assert.Equal(t, 2, rt.SimSystem().PoseCalls())
}

func TestControllerStateFromButtons(t *testing.T) {
	rt := vrsim.New()
	var raw vr.ControllerState
	raw.ButtonPressed = vr.ButtonTrigger | vr.ButtonTouchpad
	raw.Axis[vr.AxisTrigger] = vr.ControllerAxis{X: 0.75}
	raw.Axis[vr.AxisTouchpad] = vr.ControllerAxis{X: -0.5, Y: 0.25}
	raw.Axis[vr.AxisJoystick] = vr.ControllerAxis{X: 1, Y: -1}
	rt.SimSystem().SetDevice(2, vrsim.Device{Class: vr.DeviceClassController, State: raw, HasState: true})
	m := testManager(t, rt, nil, WithoutGPU())

	st, err := m.ControllerState(2)
	require.NoError(t, err)
	assert.Equal(t, ControllerState{
		TriggerPressed:  true,
		TriggerValue:    0.75,
		TouchpadPressed: true,
		TouchpadX:       -0.5,
		TouchpadY:       0.25,
		JoystickX:       1,
		JoystickY:       -1,
	}, st)

	st, err = m.ControllerState(5)
	require.NoError(t, err)
	assert.Equal(t, ControllerState{}, st, "failed query yields the empty state")

	_, err = m.ControllerState(64)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestControllerStateActionOverride(t *testing.T) {
	rt := vrsim.New()
	var raw vr.ControllerState
	raw.ButtonPressed = vr.ButtonGrip
	rt.SimSystem().SetDevice(1, vrsim.Device{Class: vr.DeviceClassController, Role: vr.ControllerRoleLeftHand, State: raw, HasState: true})
	rt.SimSystem().SetDevice(2, vrsim.Device{Class: vr.DeviceClassController, Role: vr.ControllerRoleRightHand, State: raw, HasState: true})
	m := testManager(t, rt, nil, WithoutGPU())

	// Before InitInput the raw bits are reported.
	st, err := m.ControllerState(1)
	require.NoError(t, err)
	assert.False(t, st.TriggerPressed)
	assert.True(t, st.GripPressed)

	in := rt.SimInput()
	in.SetDigital(TriggerActionPath, LeftHandPath, vr.DigitalActionData{Active: true, State: true})
	in.SetDigital(TriggerActionPath, RightHandPath, vr.DigitalActionData{Active: false, State: true})
	in.SetDigital(TriggerActionPath, "", vr.DigitalActionData{Active: true, State: false})
	in.SetDigital(GripActionPath, "", vr.DigitalActionData{Active: true, State: false})
	require.NoError(t, m.InitInput("/opt/app/actions.json"))
	_, err = m.PollToggleClicked()
	require.NoError(t, err)

	st, err = m.ControllerState(1)
	require.NoError(t, err)
	assert.True(t, st.TriggerPressed, "left hand source wins")
	assert.False(t, st.GripPressed, "grip falls back to any source")

	st, err = m.ControllerState(2)
	require.NoError(t, err)
	assert.False(t, st.TriggerPressed, "inactive right hand source falls back to any source")
	assert.False(t, st.GripPressed)
}

func TestControllerStateOverrideIgnoresFailures(t *testing.T) {
	rt := vrsim.New()
	var raw vr.ControllerState
	raw.ButtonPressed = vr.ButtonTrigger
	rt.SimSystem().SetDevice(1, vrsim.Device{Class: vr.DeviceClassController, Role: vr.ControllerRoleLeftHand, State: raw, HasState: true})
	m := testManager(t, rt, nil, WithoutGPU())
	require.NoError(t, m.InitInput("/opt/app/actions.json"))

	rt.SimInput().Fail("GetDigitalActionData", vr.InputErrorIPCError)
	st, err := m.ControllerState(1)
	require.NoError(t, err)
	assert.True(t, st.TriggerPressed)
}
