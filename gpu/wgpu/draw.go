// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vroverlay/gpu"
)

// FenceTimeout bounds the wait for one submission.
const FenceTimeout = 5 * time.Second

// ErrTimeout is returned when a submission does not complete within
// FenceTimeout.
var ErrTimeout = errors.New("wgpu: GPU wait timed out")

func (d *Device) SetRenderTarget(v gpu.View) {
	vv, _ := v.(*view)
	d.target = vv
}

func (d *Device) SetShaderInput(v gpu.View, s gpu.Sampler) {
	vv, _ := v.(*view)
	ss, _ := s.(*sampler)
	d.input, d.sampler = vv, ss
	if vv == nil {
		d.sampler = nil
	}
}

func (d *Device) SetPrograms(vertex, fragment gpu.Program) {
	d.vertex, _ = vertex.(*program)
	d.fragment, _ = fragment.(*program)
}

func (d *Device) SetViewport(vp gpu.Viewport) { d.viewport = vp }

// Draw records one render pass that clears the target and draws
// vertexCount vertices with the bound programs, then submits it and waits.
func (d *Device) Draw(vertexCount uint32) error {
	if d.destroyed {
		return gpu.ErrDestroyed
	}
	switch {
	case d.target == nil || !d.live[d.target.s]:
		return gpu.ErrNoRenderTarget
	case d.input == nil || d.sampler == nil || !d.live[d.input.s]:
		return gpu.ErrNoShaderInput
	case d.vertex == nil || d.fragment == nil:
		return gpu.ErrNoPrograms
	}
	dst := d.target.s
	if dst.mapped || d.input.s.mapped {
		return fmt.Errorf("%w: draw with a mapped surface", gpu.ErrNotMapped)
	}
	if dst.desc.Usage != gpu.UsageRenderTarget {
		return fmt.Errorf("%w: %q is not a render target", gpu.ErrInvalidDescriptor, dst.desc.Label)
	}

	pipeline, layouts, err := d.pipeline(halFormat(dst.desc.Format))
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "convert_bind_group",
		Layout: layouts.group,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: d.input.hv.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: d.sampler.hs.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	vp := d.viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = gpu.Viewport{Width: float32(dst.desc.Width), Height: float32(dst.desc.Height)}
	}
	return d.submit("convert_draw", func(encoder hal.CommandEncoder) {
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "convert_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       d.target.hv,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{},
			}},
		})
		rp.SetPipeline(pipeline)
		rp.SetBindGroup(0, bindGroup, nil)
		rp.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, 0, 1)
		rp.Draw(vertexCount, 1, 0, 0)
		rp.End()
	})
}

// CopySurface copies a render target into a readback buffer.
func (d *Device) CopySurface(dst, src gpu.Surface) error {
	ds, err := d.surfaceOf(dst)
	if err != nil {
		return err
	}
	ss, err := d.surfaceOf(src)
	if err != nil {
		return err
	}
	if ds.mapped || ss.mapped {
		return fmt.Errorf("%w: copy with a mapped surface", gpu.ErrNotMapped)
	}
	if ds.desc.Width != ss.desc.Width || ds.desc.Height != ss.desc.Height || ds.desc.Format != ss.desc.Format {
		return fmt.Errorf("%w: copy %q (%dx%d %v) to %q (%dx%d %v)", gpu.ErrInvalidDescriptor,
			ss.desc.Label, ss.desc.Width, ss.desc.Height, ss.desc.Format,
			ds.desc.Label, ds.desc.Width, ds.desc.Height, ds.desc.Format)
	}
	if ss.desc.Usage != gpu.UsageRenderTarget || ds.desc.Usage != gpu.UsageReadback {
		return fmt.Errorf("%w: copy needs a render target source and a readback destination", gpu.ErrInvalidDescriptor)
	}
	w, h := ss.desc.Width, ss.desc.Height
	return d.submit("convert_copy", func(encoder hal.CommandEncoder) {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: ss.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
		encoder.CopyTextureToBuffer(ss.tex, ds.buf, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: ds.pitch, RowsPerImage: h},
			TextureBase:  hal.ImageCopyTexture{Texture: ss.tex, MipLevel: 0},
			Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		}})
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: ss.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
	})
}

// submit records commands with record, submits them and waits for the
// submission to complete.
func (d *Device) submit(label string, record func(hal.CommandEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	record(encoder)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	index, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	return d.wait(index)
}

// wait polls the queue until submission index has completed or
// FenceTimeout has passed.
func (d *Device) wait(index uint64) error {
	deadline := time.Now().Add(FenceTimeout)
	backoff := 50 * time.Microsecond
	for d.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("wgpu: submission %d: %w", index, ErrTimeout)
		}
		time.Sleep(backoff)
		if backoff < 5*time.Millisecond {
			backoff *= 2
		}
	}
	return nil
}
