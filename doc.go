// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vroverlay places 2D overlays in a VR headset's tracking space.
//
// A Manager fronts two external collaborators: a VR compositor runtime,
// reached through the contracts in package vr, and a GPU device from
// package gpu. It creates, positions, shows and hides overlays, textures
// them from CPU pixel buffers, and reads controller and tracking state
// back.
//
// # Quick Start
//
//	m, err := vroverlay.New(rt)
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
//	h, err := m.CreateOverlay("com.example.keyboard", "Keyboard")
//	if err != nil {
//		return err
//	}
//	_ = m.SetOverlayWidth(h, 0.6)
//	_ = m.SetOverlayTransformHMD(h, 1.2)
//	_ = m.ShowOverlay(h)
//
//	// Per frame, with a BGRA or RGBA frame of w×h pixels:
//	_ = m.SetOverlayTextures(h, 0, pixels, w, ht)
//
// # Sessions
//
// Every Manager in the process shares one runtime session. The first New
// initializes the runtime and the last Close shuts it down; managers in
// between only take and drop a reference.
//
// # Textures
//
// SetOverlayTextures uploads a 4-byte-per-pixel buffer to a GPU staging
// surface and runs a fullscreen pass into an RGBA render target, which is
// then handed to the compositor. The channel order of the upload path is
// probed once on the device, so BGRA frames come out right whether the
// device reads them as BGRA or as RGBA. Without a GPU device the Manager
// still works; only the texture path reports ErrGPUUnavailable, and
// SetOverlayRaw remains as the CPU route.
//
// # Logging
//
// vroverlay is silent by default. Call SetLogger to route diagnostics to
// any slog.Handler.
package vroverlay
