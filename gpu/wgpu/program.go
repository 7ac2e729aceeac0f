// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vroverlay/gpu"
)

type program struct {
	stage  gpu.Stage
	entry  string
	module hal.ShaderModule
}

func (p *program) Stage() gpu.Stage   { return p.stage }
func (p *program) EntryPoint() string { return p.entry }

// CompileShader validates the WGSL with naga, compiles it to SPIR-V and
// creates a shader module carrying both forms.
func (d *Device) CompileShader(desc *gpu.ShaderDescriptor) (gpu.Program, error) {
	if d.destroyed {
		return nil, gpu.ErrDestroyed
	}
	if err := gpu.ValidateShader(desc); err != nil {
		return nil, fmt.Errorf("compile %s: %w", desc.Label, err)
	}
	spirv, err := compileSPIRV(desc.Source)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", desc.Label, err)
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{WGSL: desc.Source, SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module %s: %w", desc.Label, err)
	}
	return &program{stage: desc.Stage, entry: desc.EntryPoint, module: module}, nil
}

func (d *Device) DestroyProgram(p gpu.Program) {
	pp, ok := p.(*program)
	if !ok || pp == nil || pp.module == nil {
		return
	}
	for key, pipeline := range d.pipelines {
		if key.vertex == pp || key.fragment == pp {
			d.device.DestroyRenderPipeline(pipeline)
			delete(d.pipelines, key)
		}
	}
	if d.vertex == pp {
		d.vertex = nil
	}
	if d.fragment == pp {
		d.fragment = nil
	}
	d.device.DestroyShaderModule(pp.module)
	pp.module = nil
}

// compileSPIRV returns the SPIR-V words of a WGSL module.
func compileSPIRV(source string) ([]uint32, error) {
	code, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("spirv output is %d bytes, not a whole number of words", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words, nil
}

// bindingLayouts is the single texture+sampler layout shared by every
// conversion pipeline.
type bindingLayouts struct {
	group    hal.BindGroupLayout
	pipeline hal.PipelineLayout
}

func (b *bindingLayouts) destroy(device hal.Device) {
	device.DestroyPipelineLayout(b.pipeline)
	device.DestroyBindGroupLayout(b.group)
}

func (d *Device) layouts() (*bindingLayouts, error) {
	if d.bindings != nil {
		return d.bindings, nil
	}
	group, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "convert_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	pl, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "convert_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{group},
	})
	if err != nil {
		d.device.DestroyBindGroupLayout(group)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	d.bindings = &bindingLayouts{group: group, pipeline: pl}
	return d.bindings, nil
}

type pipelineKey struct {
	vertex, fragment *program
	format           gputypes.TextureFormat
}

// pipeline returns the render pipeline for the bound programs and target
// format, creating it on first use.
func (d *Device) pipeline(format gputypes.TextureFormat) (hal.RenderPipeline, *bindingLayouts, error) {
	layouts, err := d.layouts()
	if err != nil {
		return nil, nil, err
	}
	key := pipelineKey{vertex: d.vertex, fragment: d.fragment, format: format}
	if p, ok := d.pipelines[key]; ok {
		return p, layouts, nil
	}
	p, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  d.fragment.entry,
		Layout: layouts.pipeline,
		Vertex: hal.VertexState{Module: d.vertex.module, EntryPoint: d.vertex.entry},
		Fragment: &hal.FragmentState{
			Module:     d.fragment.module,
			EntryPoint: d.fragment.entry,
			Targets: []gputypes.ColorTargetState{
				{Format: format, WriteMask: gputypes.ColorWriteMaskAll},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create render pipeline %s: %w", d.fragment.entry, err)
	}
	d.pipelines[key] = p
	return p, layouts, nil
}
