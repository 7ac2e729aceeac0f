// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrsim

import (
	"sync"

	"github.com/gogpu/vroverlay/vr"
)

// Device is one entry of the simulated tracked device table.
type Device struct {
	Class vr.DeviceClass
	Role  vr.ControllerRole

	// Pose is expressed in the standing universe.
	Pose vr.TrackedDevicePose

	// State is served by GetControllerState when HasState is set.
	State    vr.ControllerState
	HasState bool
}

// System is the simulated vr.System.
type System struct {
	mu        sync.Mutex
	devices   [vr.MaxTrackedDeviceCount]Device
	poseCalls int
}

var _ vr.System = (*System)(nil)

func newSystem() *System {
	s := &System{}
	s.devices[vr.HMDDeviceIndex] = Device{
		Class: vr.DeviceClassHMD,
		Pose: vr.TrackedDevicePose{
			DeviceToAbsoluteTracking: vr.Matrix34{
				{1, 0, 0, 0},
				{0, 1, 0, 1.6},
				{0, 0, 1, 0},
			},
			PoseIsValid:       true,
			DeviceIsConnected: true,
		},
	}
	return s
}

// SetDevice replaces the device at index. Out-of-range indices are ignored.
func (s *System) SetDevice(index vr.TrackedDeviceIndex, d Device) {
	if index >= vr.MaxTrackedDeviceCount {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[index] = d
}

// UpdateDevice applies fn to the device at index.
func (s *System) UpdateDevice(index vr.TrackedDeviceIndex, fn func(*Device)) {
	if index >= vr.MaxTrackedDeviceCount {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.devices[index])
}

// PoseCalls returns how many times the pose table was read.
func (s *System) PoseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poseCalls
}

func (s *System) pose(index vr.TrackedDeviceIndex) (vr.Matrix34, bool) {
	if index >= vr.MaxTrackedDeviceCount {
		return vr.Matrix34{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.devices[index].Pose
	return p.DeviceToAbsoluteTracking, p.PoseIsValid && p.DeviceIsConnected
}

func (s *System) GetTrackedDeviceClass(index vr.TrackedDeviceIndex) vr.DeviceClass {
	if index >= vr.MaxTrackedDeviceCount {
		return vr.DeviceClassInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices[index].Class
}

func (s *System) GetControllerRoleForTrackedDeviceIndex(index vr.TrackedDeviceIndex) vr.ControllerRole {
	if index >= vr.MaxTrackedDeviceCount {
		return vr.ControllerRoleInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices[index].Role
}

func (s *System) GetControllerState(index vr.TrackedDeviceIndex) (vr.ControllerState, bool) {
	if index >= vr.MaxTrackedDeviceCount {
		return vr.ControllerState{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.devices[index]
	if d.Class != vr.DeviceClassController || !d.HasState {
		return vr.ControllerState{}, false
	}
	return d.State, true
}

func (s *System) GetDeviceToAbsoluteTrackingPose(origin vr.TrackingOrigin, _ float32, poses []vr.TrackedDevicePose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poseCalls++
	for i := range poses {
		if i >= vr.MaxTrackedDeviceCount {
			break
		}
		p := s.devices[i].Pose
		if origin == vr.TrackingOriginSeated {
			// Seated universe sits at eye height.
			p.DeviceToAbsoluteTracking[1][3] -= 1.6
		}
		poses[i] = p
	}
}
