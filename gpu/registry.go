// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gpucontext"
)

// Backend names.
const (
	BackendWGPU     = "wgpu"
	BackendSoftware = "software"
)

// Options are passed to backend factories.
type Options struct {
	// Provider, when set, supplies an existing device to share. Backends
	// that cannot use it ignore it.
	Provider gpucontext.DeviceProvider
}

// Factory opens a device.
type Factory func(Options) (Device, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first that opens wins).
	backendPriority = []string{BackendWGPU, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

func lookup(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := backends[name]
	return f, ok
}

// Open opens the named backend.
func Open(name string, opts Options) (Device, error) {
	factory, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	dev, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("gpu: open %s: %w", name, err)
	}
	Logger().Info("gpu device opened", "backend", name, "device", dev.Name(), "api", dev.API())
	return dev, nil
}

// OpenDefault opens the best available backend. Backends are tried in
// priority order (wgpu, then software), then any other registered backend
// in name order. It returns the device and the name of the backend that
// opened it.
func OpenDefault(opts Options) (Device, string, error) {
	tried := make(map[string]bool)
	order := make([]string, 0, len(backendPriority))
	order = append(order, backendPriority...)
	order = append(order, Available()...)

	var errs []error
	for _, name := range order {
		if tried[name] || !IsRegistered(name) {
			continue
		}
		tried[name] = true
		dev, err := Open(name, opts)
		if err == nil {
			return dev, name, nil
		}
		Logger().Warn("gpu backend unavailable, trying next", "backend", name, "err", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, "", ErrNoBackend
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(errs...))
}
