// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"github.com/gogpu/vroverlay/gpu"
	"github.com/gogpu/vroverlay/internal/convert"
	"github.com/gogpu/vroverlay/internal/debounce"
	"github.com/gogpu/vroverlay/internal/session"
	"github.com/gogpu/vroverlay/vr"

	// Hardware backend; compiled out by the nogpu tag.
	_ "github.com/gogpu/vroverlay/gpu/wgpu"
)

// Manager owns one reference on the runtime session, an optional GPU
// device with its texture converter, the action-input cache and the
// tracked pose cache.
//
// A Manager is not safe for concurrent use. Call it from one goroutine at
// a time; only the session it shares with other managers is synchronized.
type Manager struct {
	cfg      Config
	registry *session.Registry
	closed   bool

	overlay vr.Overlay
	system  vr.System
	input   vr.Input

	dev       gpu.Device
	ownDevice bool
	conv      *convert.Converter

	actions actionCache
	toggle  debounce.Toggle
	poses   [vr.MaxTrackedDeviceCount]vr.TrackedDevicePose
}

// New acquires the process-wide session on rt and prepares a Manager.
//
// The overlay interface is mandatory. The system and input interfaces and
// the GPU device are optional: when one is missing, only the operations
// that need it fail.
func New(rt vr.Runtime, opts ...Option) (*Manager, error) {
	if rt == nil {
		return nil, invalidArg("runtime is nil")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	h, err := o.registry.Acquire(rt, o.cfg.versions())
	if err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:      o.cfg,
		registry: o.registry,
		overlay:  h.Overlay,
		system:   h.System,
		input:    h.Input,
	}

	m.openDevice(o)

	if path := m.cfg.Input.Manifest; path != "" {
		if err := m.InitInput(path); err != nil {
			slogger().Warn("action input unavailable", "manifest", path, "err", err)
		}
	}
	return m, nil
}

func (m *Manager) openDevice(o options) {
	switch {
	case o.device != nil:
		m.dev = o.device
	case m.cfg.GPU.Disabled:
		slogger().Debug("GPU disabled by configuration")
		return
	default:
		gopts := gpu.Options{Provider: o.provider}
		var (
			dev  gpu.Device
			name = m.cfg.GPU.Backend
			err  error
		)
		if name != "" {
			dev, err = gpu.Open(name, gopts)
		} else {
			dev, name, err = gpu.OpenDefault(gopts)
		}
		if err != nil {
			slogger().Warn("GPU unavailable, texture path disabled", "backend", name, "err", err)
			return
		}
		m.dev = dev
		m.ownDevice = true
	}
	m.conv = convert.New(m.dev)
}

// Close releases the GPU resources and the session reference. Overlays are
// left to the runtime. Close is idempotent.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	if m.conv != nil {
		m.conv.Destroy()
		m.conv = nil
	}
	if m.dev != nil && m.ownDevice {
		m.dev.Destroy()
	}
	m.dev = nil

	// Handles must not outlive the session.
	m.overlay, m.system, m.input = nil, nil, nil
	m.actions = actionCache{}
	m.toggle.Reset()

	m.registry.Release()
	return nil
}

// Config returns the configuration the Manager was created with.
func (m *Manager) Config() Config { return m.cfg }

// GPU returns the device used by the texture path, or nil.
func (m *Manager) GPU() gpu.Device { return m.dev }

func (m *Manager) overlayAPI() (vr.Overlay, error) {
	if m.closed {
		return nil, ErrClosed
	}
	return m.overlay, nil
}

func (m *Manager) systemAPI() (vr.System, error) {
	switch {
	case m.closed:
		return nil, ErrClosed
	case m.system == nil:
		return nil, ErrSystemUnavailable
	}
	return m.system, nil
}

func (m *Manager) inputAPI() (vr.Input, error) {
	switch {
	case m.closed:
		return nil, ErrClosed
	case m.input == nil:
		return nil, ErrInputUnavailable
	}
	return m.input, nil
}

func (m *Manager) converter() (*convert.Converter, error) {
	switch {
	case m.closed:
		return nil, ErrClosed
	case m.conv == nil:
		return nil, ErrGPUUnavailable
	}
	return m.conv, nil
}
