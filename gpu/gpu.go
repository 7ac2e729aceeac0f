// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu defines the device contract used by vroverlay to turn CPU
// pixel buffers into GPU textures, and a registry of device backends.
//
// A Device is a small, synchronous slice of a graphics API: 2D surfaces and
// views, CPU mapping, WGSL programs, one sampler slot, one render target
// slot and a non-indexed draw. That is exactly what a fullscreen-triangle
// conversion pass needs and nothing more.
//
// # Backend Registration
//
// Backends register a factory from init(), the way database/sql drivers
// do, and are selected by name or by priority:
//
//	import (
//		_ "github.com/gogpu/vroverlay/gpu/software" // CPU reference device
//		_ "github.com/gogpu/vroverlay/gpu/wgpu"     // Vulkan via wgpu/hal
//	)
//
//	dev, name, err := gpu.OpenDefault(gpu.Options{})
//
// The wgpu backend is excluded by the nogpu build tag.
//
// # Device Sharing
//
// When the host already owns a GPU device (for example a gogpu window), pass
// it as Options.Provider. Backends that understand the provider use its
// device and queue instead of creating their own, and never destroy them.
package gpu
