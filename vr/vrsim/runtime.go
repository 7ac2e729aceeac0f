// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vrsim is an in-process VR runtime that implements the vr contracts
// with real state: overlays keep their transforms, textures and visibility,
// the system keeps a tracked device table, and the input layer resolves
// action paths to handles and serves scripted digital action data.
//
// It is used by the vroverlay tests and by cmd/vroverlay-demo. Every call can
// be made to fail with a chosen error code so that error paths are
// reachable without real hardware.
//
//	rt := vrsim.New()
//	rt.SimSystem().SetDevice(1, vrsim.Device{Class: vr.DeviceClassController, Role: vr.ControllerRoleLeftHand})
//	m, err := vroverlay.New(rt)
package vrsim

import (
	"strings"
	"sync"

	"github.com/gogpu/vroverlay/vr"
)

// Interface name fragments accepted by the simulator. Any version string
// containing the fragment is served, so hosts can pin revisions freely.
const (
	OverlayInterface = "IVROverlay_"
	SystemInterface  = "IVRSystem_"
	InputInterface   = "IVRInput_"
)

// Runtime is a simulated vr.Runtime.
type Runtime struct {
	mu sync.Mutex

	hmdPresent  bool
	initialized bool
	initErr     vr.InitError
	ifaceErrs   map[string]vr.InitError
	token       vr.Token

	initCalls     int
	shutdownCalls int

	overlay *Overlay
	system  *System
	input   *Input
}

var _ vr.Runtime = (*Runtime)(nil)

// New creates a runtime with a headset present at device index 0.
func New() *Runtime {
	rt := &Runtime{
		hmdPresent: true,
		ifaceErrs:  make(map[string]vr.InitError),
		system:     newSystem(),
		input:      newInput(),
	}
	rt.overlay = newOverlay(rt.system)
	return rt
}

// SetHMDPresent controls IsHmdPresent.
func (rt *Runtime) SetHMDPresent(present bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.hmdPresent = present
}

// FailInit makes subsequent Init calls fail with code. Pass
// vr.InitErrorNone to clear.
func (rt *Runtime) FailInit(code vr.InitError) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.initErr = code
}

// FailInterface makes lookups of the given interface fragment (for example
// OverlayInterface) fail with code. Pass vr.InitErrorNone to clear.
func (rt *Runtime) FailInterface(fragment string, code vr.InitError) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if code == vr.InitErrorNone {
		delete(rt.ifaceErrs, fragment)
		return
	}
	rt.ifaceErrs[fragment] = code
}

// Initialized reports whether a session is active.
func (rt *Runtime) Initialized() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.initialized
}

// InitCalls returns how many times Init succeeded.
func (rt *Runtime) InitCalls() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.initCalls
}

// ShutdownCalls returns how many times Shutdown ended a session.
func (rt *Runtime) ShutdownCalls() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.shutdownCalls
}

// SimOverlay returns the simulated overlay interface for inspection.
func (rt *Runtime) SimOverlay() *Overlay { return rt.overlay }

// SimSystem returns the simulated system interface for inspection.
func (rt *Runtime) SimSystem() *System { return rt.system }

// SimInput returns the simulated input interface for inspection.
func (rt *Runtime) SimInput() *Input { return rt.input }

func (rt *Runtime) IsHmdPresent() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.hmdPresent
}

func (rt *Runtime) Init(app vr.ApplicationType) (vr.Token, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.initErr != vr.InitErrorNone {
		return 0, rt.initErr
	}
	if !rt.hmdPresent && app != vr.ApplicationBackground && app != vr.ApplicationUtility {
		return 0, vr.InitErrorHmdNotFound
	}
	rt.initialized = true
	rt.initCalls++
	rt.token++
	return rt.token, nil
}

func (rt *Runtime) Shutdown() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.initialized {
		return
	}
	rt.initialized = false
	rt.shutdownCalls++
}

func (rt *Runtime) lookup(version, fragment string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.initialized {
		return vr.InitErrorNotInitialized
	}
	if code, ok := rt.ifaceErrs[fragment]; ok {
		return code
	}
	if !strings.Contains(version, fragment) {
		return vr.InitErrorInterfaceNotFound
	}
	return nil
}

func (rt *Runtime) Overlay(version string) (vr.Overlay, error) {
	if err := rt.lookup(version, OverlayInterface); err != nil {
		return nil, err
	}
	return rt.overlay, nil
}

func (rt *Runtime) System(version string) (vr.System, error) {
	if err := rt.lookup(version, SystemInterface); err != nil {
		return nil, err
	}
	return rt.system, nil
}

func (rt *Runtime) Input(version string) (vr.Input, error) {
	if err := rt.lookup(version, InputInterface); err != nil {
		return nil, err
	}
	return rt.input, nil
}
