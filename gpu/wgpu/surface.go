// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vroverlay/gpu"
)

type surface struct {
	dev   *Device
	desc  gpu.SurfaceDescriptor
	pitch uint32

	tex    hal.Texture // staging and render target
	buf    hal.Buffer  // readback
	shadow []byte      // staging CPU copy
	mapped bool
	views  []*view
}

func (s *surface) Descriptor() gpu.SurfaceDescriptor { return s.desc }

func (s *surface) NativeHandle() uintptr {
	if s.tex != nil {
		return s.tex.NativeHandle()
	}
	if s.buf != nil {
		return s.buf.NativeHandle()
	}
	return 0
}

func (s *surface) size() uint64 { return uint64(s.pitch) * uint64(s.desc.Height) }

func (s *surface) release(device hal.Device) {
	for _, v := range s.views {
		device.DestroyTextureView(v.hv)
	}
	s.views = nil
	if s.tex != nil {
		device.DestroyTexture(s.tex)
		s.tex = nil
	}
	if s.buf != nil {
		if s.mapped {
			_ = device.UnmapBuffer(s.buf)
		}
		device.DestroyBuffer(s.buf)
		s.buf = nil
	}
	s.shadow = nil
}

type view struct {
	s  *surface
	hv hal.TextureView
}

func (v *view) Surface() gpu.Surface { return v.s }

type sampler struct {
	desc gpu.SamplerDescriptor
	hs   hal.Sampler
}

func (s *sampler) Descriptor() gpu.SamplerDescriptor { return s.desc }

func (d *Device) surfaceOf(s gpu.Surface) (*surface, error) {
	ss, ok := s.(*surface)
	if !ok || ss == nil || ss.dev != d || !d.live[ss] {
		return nil, gpu.ErrForeignObject
	}
	return ss, nil
}

func (d *Device) CreateSurface(desc *gpu.SurfaceDescriptor) (gpu.Surface, error) {
	if d.destroyed {
		return nil, gpu.ErrDestroyed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	s := &surface{dev: d, desc: *desc, pitch: alignUp(desc.Width*4, copyPitchAlignment)}

	switch desc.Usage {
	case gpu.UsageReadback:
		buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: desc.Label,
			Size:  s.size(),
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("wgpu: create readback buffer %q: %w", desc.Label, err)
		}
		s.buf = buf
	default:
		usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
		if desc.Usage == gpu.UsageRenderTarget {
			usage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
		}
		tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
			Label:         desc.Label,
			Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        halFormat(desc.Format),
			Usage:         usage,
		})
		if err != nil {
			return nil, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
		}
		s.tex = tex
		if desc.Usage == gpu.UsageStaging {
			s.shadow = make([]byte, s.size())
		}
	}
	d.live[s] = true
	return s, nil
}

func (d *Device) DestroySurface(s gpu.Surface) {
	ss, err := d.surfaceOf(s)
	if err != nil {
		return
	}
	if d.target != nil && d.target.s == ss {
		d.target = nil
	}
	if d.input != nil && d.input.s == ss {
		d.input, d.sampler = nil, nil
	}
	ss.release(d.device)
	delete(d.live, ss)
}

func (d *Device) CreateView(s gpu.Surface) (gpu.View, error) {
	ss, err := d.surfaceOf(s)
	if err != nil {
		return nil, err
	}
	if ss.tex == nil {
		return nil, fmt.Errorf("%w: readback surface %q has no view", gpu.ErrInvalidDescriptor, ss.desc.Label)
	}
	hv, err := d.device.CreateTextureView(ss.tex, &hal.TextureViewDescriptor{
		Label:         ss.desc.Label + "_view",
		Format:        halFormat(ss.desc.Format),
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create view of %q: %w", ss.desc.Label, err)
	}
	v := &view{s: ss, hv: hv}
	ss.views = append(ss.views, v)
	return v, nil
}

func (d *Device) DestroyView(v gpu.View) {
	vv, ok := v.(*view)
	if !ok || vv == nil || vv.s.dev != d {
		return
	}
	for i, w := range vv.s.views {
		if w == vv {
			vv.s.views = append(vv.s.views[:i], vv.s.views[i+1:]...)
			d.device.DestroyTextureView(vv.hv)
			break
		}
	}
	if d.target == vv {
		d.target = nil
	}
	if d.input == vv {
		d.input, d.sampler = nil, nil
	}
}

// Map returns the CPU shadow of a staging surface, or the mapped memory of
// a readback buffer.
func (d *Device) Map(s gpu.Surface, mode gpu.MapMode) (gpu.Mapping, error) {
	ss, err := d.surfaceOf(s)
	if err != nil {
		return gpu.Mapping{}, err
	}
	if ss.mapped {
		return gpu.Mapping{}, fmt.Errorf("%w: %q already mapped", gpu.ErrNotMapped, ss.desc.Label)
	}
	switch {
	case mode == gpu.MapWrite && ss.desc.Usage == gpu.UsageStaging:
		ss.mapped = true
		return gpu.Mapping{Data: ss.shadow, RowPitch: ss.pitch}, nil
	case mode == gpu.MapRead && ss.desc.Usage == gpu.UsageReadback:
		m, err := d.device.MapBuffer(ss.buf, 0, ss.size())
		if err != nil {
			return gpu.Mapping{}, fmt.Errorf("wgpu: map %q: %w", ss.desc.Label, err)
		}
		ss.mapped = true
		return gpu.Mapping{Data: unsafe.Slice((*byte)(m.Ptr), ss.size()), RowPitch: ss.pitch}, nil
	default:
		return gpu.Mapping{}, fmt.Errorf("%w: cannot map %v surface %q for mode %d",
			gpu.ErrInvalidDescriptor, ss.desc.Usage, ss.desc.Label, mode)
	}
}

// Unmap uploads a staging shadow to its texture, or unmaps a readback
// buffer. A failed upload leaves the texture with its previous content.
func (d *Device) Unmap(s gpu.Surface) error {
	ss, err := d.surfaceOf(s)
	if err != nil {
		return err
	}
	if !ss.mapped {
		return fmt.Errorf("%w: %q is not mapped", gpu.ErrNotMapped, ss.desc.Label)
	}
	ss.mapped = false
	if ss.buf != nil {
		if err := d.device.UnmapBuffer(ss.buf); err != nil {
			return fmt.Errorf("wgpu: unmap %q: %w", ss.desc.Label, err)
		}
		return nil
	}
	err = d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: ss.tex, MipLevel: 0},
		ss.shadow,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: ss.pitch, RowsPerImage: ss.desc.Height},
		&hal.Extent3D{Width: ss.desc.Width, Height: ss.desc.Height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: upload %q: %w", ss.desc.Label, err)
	}
	return nil
}

func (d *Device) CreateSampler(desc *gpu.SamplerDescriptor) (gpu.Sampler, error) {
	if d.destroyed {
		return nil, gpu.ErrDestroyed
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: nil sampler descriptor", gpu.ErrInvalidDescriptor)
	}
	hs, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filterMode(desc.MagFilter),
		MinFilter:    filterMode(desc.MinFilter),
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler %q: %w", desc.Label, err)
	}
	return &sampler{desc: *desc, hs: hs}, nil
}

func (d *Device) DestroySampler(s gpu.Sampler) {
	ss, ok := s.(*sampler)
	if !ok || ss == nil || ss.hs == nil {
		return
	}
	if d.sampler == ss {
		d.sampler = nil
	}
	d.device.DestroySampler(ss.hs)
	ss.hs = nil
}

func filterMode(f gpu.Filter) gputypes.FilterMode {
	if f == gpu.FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}
