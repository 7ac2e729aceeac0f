// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package convert

import _ "embed"

// Embedded WGSL shader sources.

//go:embed shaders/fullscreen.wgsl
var fullscreenShaderSource string

//go:embed shaders/passthrough.wgsl
var passthroughShaderSource string

//go:embed shaders/swizzle.wgsl
var swizzleShaderSource string

// Entry points of the conversion programs.
const (
	VertexEntryPoint      = "vs_fullscreen"
	PassthroughEntryPoint = "fs_passthrough"
	SwizzleEntryPoint     = "fs_swizzle"
)

// VertexShaderSource returns the WGSL of the fullscreen-triangle vertex program.
func VertexShaderSource() string { return fullscreenShaderSource }

// PassthroughShaderSource returns the WGSL of the passthrough fragment program.
func PassthroughShaderSource() string { return passthroughShaderSource }

// SwizzleShaderSource returns the WGSL of the red/blue swizzle fragment program.
func SwizzleShaderSource() string { return swizzleShaderSource }
