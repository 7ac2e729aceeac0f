// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/vroverlay/gpu"
	"github.com/gogpu/vroverlay/internal/session"
)

// Option configures a Manager during creation.
//
// Options are applied in order, so WithConfig should come before options
// that adjust single fields.
//
// Example:
//
//	// Defaults plus environment overrides, best available GPU backend
//	m, err := vroverlay.New(rt)
//
//	// Share the host's GPU device
//	m, err := vroverlay.New(rt, vroverlay.WithDeviceProvider(app))
type Option func(*options)

type options struct {
	cfg      Config
	provider gpucontext.DeviceProvider
	device   gpu.Device
	registry *session.Registry
}

// defaultOptions returns DefaultConfig with environment overrides applied.
func defaultOptions() options {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return options{cfg: cfg, registry: session.Default}
}

// WithConfig replaces the configuration. Environment overrides are not
// applied on top; call Config.ApplyEnv first if they should be.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		cfg.normalize()
		o.cfg = cfg
	}
}

// WithGPUBackend selects a gpu backend by name, for example
// gpu.BackendSoftware.
func WithGPUBackend(name string) Option {
	return func(o *options) {
		o.cfg.GPU.Backend = name
		o.cfg.GPU.Disabled = false
	}
}

// WithoutGPU disables the texture path. SetOverlayRaw keeps working.
func WithoutGPU() Option {
	return func(o *options) {
		o.cfg.GPU.Disabled = true
	}
}

// WithDeviceProvider shares the GPU device of the host application, for
// example a gogpu window. The Manager never destroys a shared device.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithDevice uses an already opened gpu.Device. The caller keeps
// ownership and must destroy it after closing the Manager.
func WithDevice(dev gpu.Device) Option {
	return func(o *options) {
		o.device = dev
	}
}

// withRegistry replaces the process-wide session registry in tests.
func withRegistry(r *session.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}
