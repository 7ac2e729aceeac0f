// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"

	"github.com/gogpu/vroverlay/gpu"
)

type kernel int

const (
	kernelFullscreen kernel = iota + 1
	kernelPassthrough
	kernelSwizzle
)

// kernels maps entry points to the built-in kernel that executes them.
var kernels = map[string]struct {
	stage  gpu.Stage
	kernel kernel
}{
	"vs_fullscreen":  {gpu.StageVertex, kernelFullscreen},
	"fs_passthrough": {gpu.StageFragment, kernelPassthrough},
	"fs_swizzle":     {gpu.StageFragment, kernelSwizzle},
}

type program struct {
	stage  gpu.Stage
	entry  string
	kernel kernel
}

func (p *program) Stage() gpu.Stage   { return p.stage }
func (p *program) EntryPoint() string { return p.entry }

// CompileShader parses and validates the WGSL module with naga and binds the
// entry point to a built-in kernel.
func (d *Device) CompileShader(desc *gpu.ShaderDescriptor) (gpu.Program, error) {
	if d.destroyed {
		return nil, gpu.ErrDestroyed
	}
	if desc == nil || desc.Source == "" || desc.EntryPoint == "" {
		return nil, fmt.Errorf("%w: empty shader descriptor", gpu.ErrInvalidDescriptor)
	}
	if err := gpu.ValidateShader(desc); err != nil {
		return nil, fmt.Errorf("compile %s: %w", desc.Label, err)
	}
	k, ok := kernels[desc.EntryPoint]
	if !ok || k.stage != desc.Stage {
		return nil, fmt.Errorf("%w: %s entry point %q", gpu.ErrUnsupportedProgram, desc.Stage, desc.EntryPoint)
	}
	d.stats.Compiles++
	return &program{stage: desc.Stage, entry: desc.EntryPoint, kernel: k.kernel}, nil
}

func (d *Device) DestroyProgram(p gpu.Program) {
	pp, ok := p.(*program)
	if !ok {
		return
	}
	if d.vertex == pp {
		d.vertex = nil
	}
	if d.fragment == pp {
		d.fragment = nil
	}
}
