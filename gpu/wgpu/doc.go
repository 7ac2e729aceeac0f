// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements gpu.Device on the gogpu/wgpu HAL.
//
// Importing the package registers the "wgpu" backend. The backend opens a
// Vulkan device of its own, or borrows the device of a gpucontext
// DeviceProvider passed in gpu.Options.Provider. Build with the nogpu tag
// to leave the backend out.
//
// Surfaces map onto HAL objects as follows:
//
//	Staging       sampled texture plus a CPU shadow, uploaded on Unmap
//	RenderTarget  render-attachment texture, copyable and sampleable
//	Readback      map-read buffer with 256-byte aligned rows
//
// Every Draw and CopySurface submits its own command buffer and waits up
// to FenceTimeout for it to complete, so the device is synchronous from the
// caller's point of view.
package wgpu
