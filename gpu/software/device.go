// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a CPU implementation of gpu.Device.
//
// Programs are validated with naga like a real driver would, then executed
// by built-in kernels selected by entry point name:
//
//	vs_fullscreen   full-viewport triangle (3 vertices, no vertex buffer)
//	fs_passthrough  returns the sampled texel
//	fs_swizzle      returns the sampled texel with red and blue exchanged
//
// Sampling is nearest-neighbour with clamp-to-edge addressing. Importing the
// package registers it as the "software" backend.
package software

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/vroverlay/gpu"
)

// DefaultRowAlignment is the row pitch alignment of mapped surfaces.
const DefaultRowAlignment = 256

func init() {
	gpu.Register(gpu.BackendSoftware, func(gpu.Options) (gpu.Device, error) {
		return New(), nil
	})
}

// Stats counts device calls. Tests use it to assert that work was, or was
// not, done.
type Stats struct {
	SurfacesCreated   int
	SurfacesDestroyed int
	ViewsCreated      int
	Maps              int
	Unmaps            int
	Compiles          int
	Draws             int
	Copies            int
}

// Option configures a Device.
type Option func(*Device)

// WithRowAlignment sets the row pitch alignment of mapped surfaces.
// Values below 4 are raised to 4.
func WithRowAlignment(n uint32) Option {
	return func(d *Device) {
		if n < 4 {
			n = 4
		}
		d.rowAlign = n
	}
}

// WithStagingFormat makes programs sample staging surfaces as if they held
// format f, whatever format they were created with. Drivers that ignore the
// requested staging layout behave this way.
func WithStagingFormat(f gpu.Format) Option {
	return func(d *Device) { d.stagingFormat = f }
}

// WithAPI sets the API reported for native handles. The default is
// gpu.APIVulkan: surfaces stand in for Vulkan images, but their handles are
// only meaningful to an in-process runtime.
func WithAPI(api gpu.API) Option {
	return func(d *Device) { d.api = api }
}

// Device is a CPU gpu.Device.
type Device struct {
	api           gpu.API
	rowAlign      uint32
	stagingFormat gpu.Format

	nextHandle uintptr
	live       map[*surface]bool
	stats      Stats
	destroyed  bool

	target   *view
	input    *view
	sampler  *sampler
	vertex   *program
	fragment *program
	viewport gpu.Viewport
}

var _ gpu.Device = (*Device)(nil)

// New creates a software device.
func New(opts ...Option) *Device {
	d := &Device{
		api:        gpu.APIVulkan,
		rowAlign:   DefaultRowAlignment,
		nextHandle: 0x1000,
		live:       make(map[*surface]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns a snapshot of the call counters.
func (d *Device) Stats() Stats { return d.stats }

// LiveSurfaces returns the number of surfaces not yet destroyed.
func (d *Device) LiveSurfaces() int { return len(d.live) }

func (d *Device) API() gpu.API  { return d.api }
func (d *Device) Name() string { return "software" }

type surface struct {
	dev    *Device
	desc   gpu.SurfaceDescriptor
	handle uintptr
	pitch  uint32
	data   []byte
	mapped bool
}

func (s *surface) Descriptor() gpu.SurfaceDescriptor { return s.desc }
func (s *surface) NativeHandle() uintptr             { return s.handle }

type view struct {
	s *surface
}

func (v *view) Surface() gpu.Surface { return v.s }

type sampler struct {
	desc gpu.SamplerDescriptor
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
	pitch := alignUp(desc.Width*4, d.rowAlign)
	s := &surface{
		dev:    d,
		desc:   *desc,
		handle: d.nextHandle,
		pitch:  pitch,
		data:   make([]byte, int(pitch)*int(desc.Height)),
	}
	d.nextHandle += 0x10
	d.live[s] = true
	d.stats.SurfacesCreated++
	return s, nil
}

func (d *Device) DestroySurface(s gpu.Surface) {
	ss, err := d.surfaceOf(s)
	if err != nil {
		return
	}
	delete(d.live, ss)
	ss.data = nil
	d.stats.SurfacesDestroyed++
}

func (d *Device) CreateView(s gpu.Surface) (gpu.View, error) {
	ss, err := d.surfaceOf(s)
	if err != nil {
		return nil, err
	}
	d.stats.ViewsCreated++
	return &view{s: ss}, nil
}

func (d *Device) DestroyView(v gpu.View) {
	vv, ok := v.(*view)
	if !ok || vv == nil {
		return
	}
	if d.target == vv {
		d.target = nil
	}
	if d.input == vv {
		d.input = nil
	}
}

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
	case mode == gpu.MapRead && ss.desc.Usage == gpu.UsageReadback:
	default:
		return gpu.Mapping{}, fmt.Errorf("%w: cannot map %v surface %q for mode %d",
			gpu.ErrInvalidDescriptor, ss.desc.Usage, ss.desc.Label, mode)
	}
	ss.mapped = true
	d.stats.Maps++
	return gpu.Mapping{Data: ss.data, RowPitch: ss.pitch}, nil
}

func (d *Device) Unmap(s gpu.Surface) error {
	ss, err := d.surfaceOf(s)
	if err != nil {
		return err
	}
	if !ss.mapped {
		return fmt.Errorf("%w: %q is not mapped", gpu.ErrNotMapped, ss.desc.Label)
	}
	ss.mapped = false
	d.stats.Unmaps++
	return nil
}

func (d *Device) CreateSampler(desc *gpu.SamplerDescriptor) (gpu.Sampler, error) {
	if d.destroyed {
		return nil, gpu.ErrDestroyed
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: nil sampler descriptor", gpu.ErrInvalidDescriptor)
	}
	return &sampler{desc: *desc}, nil
}

func (d *Device) DestroySampler(s gpu.Sampler) {
	if ss, ok := s.(*sampler); ok && d.sampler == ss {
		d.sampler = nil
	}
}

func (d *Device) SetRenderTarget(v gpu.View) {
	vv, _ := v.(*view)
	d.target = vv
}

func (d *Device) SetShaderInput(v gpu.View, s gpu.Sampler) {
	vv, _ := v.(*view)
	ss, _ := s.(*sampler)
	d.input = vv
	d.sampler = ss
	if vv == nil {
		d.sampler = nil
	}
}

func (d *Device) SetPrograms(vertex, fragment gpu.Program) {
	d.vertex, _ = vertex.(*program)
	d.fragment, _ = fragment.(*program)
}

func (d *Device) SetViewport(vp gpu.Viewport) { d.viewport = vp }

// Draw rasterizes the fullscreen triangle into the viewport of the render
// target. The target is cleared to transparent first, matching a clear
// load op.
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
	if d.vertex.kernel != kernelFullscreen || vertexCount != 3 {
		return fmt.Errorf("%w: %s with %d vertices", gpu.ErrUnsupportedProgram, d.vertex.entry, vertexCount)
	}
	dst, src := d.target.s, d.input.s
	if dst.mapped || src.mapped {
		return fmt.Errorf("%w: draw with a mapped surface", gpu.ErrNotMapped)
	}
	if dst.desc.Usage != gpu.UsageRenderTarget {
		return fmt.Errorf("%w: %q is not a render target", gpu.ErrInvalidDescriptor, dst.desc.Label)
	}

	srcImg := d.decode(src)
	out := image.NewRGBA(image.Rect(0, 0, int(dst.desc.Width), int(dst.desc.Height)))
	r := d.viewportRect(dst).Intersect(out.Rect)
	if !r.Empty() {
		draw.NearestNeighbor.Scale(out, r, srcImg, srcImg.Rect, draw.Src, nil)
		if d.fragment.kernel == kernelSwizzle {
			swapRedBlue(out, r)
		}
	}
	encode(dst, out)
	d.stats.Draws++
	return nil
}

func (d *Device) viewportRect(dst *surface) image.Rectangle {
	vp := d.viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		return image.Rect(0, 0, int(dst.desc.Width), int(dst.desc.Height))
	}
	return image.Rect(int(vp.X), int(vp.Y), int(vp.X+vp.Width), int(vp.Y+vp.Height))
}

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
	row := int(ss.desc.Width) * 4
	for y := 0; y < int(ss.desc.Height); y++ {
		copy(ds.data[y*int(ds.pitch):y*int(ds.pitch)+row], ss.data[y*int(ss.pitch):y*int(ss.pitch)+row])
	}
	d.stats.Copies++
	return nil
}

func (d *Device) Destroy() {
	for s := range d.live {
		s.data = nil
	}
	d.live = make(map[*surface]bool)
	d.target, d.input, d.sampler = nil, nil, nil
	d.vertex, d.fragment = nil, nil
	d.destroyed = true
}

// decode returns the surface as logical RGBA, honouring the staging
// format override.
func (d *Device) decode(s *surface) *image.RGBA {
	format := s.desc.Format
	if s.desc.Usage == gpu.UsageStaging && d.stagingFormat != 0 {
		format = d.stagingFormat
	}
	w, h := int(s.desc.Width), int(s.desc.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcRow := s.data[y*int(s.pitch) : y*int(s.pitch)+w*4]
		dstRow := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(dstRow, srcRow)
		if format == gpu.FormatBGRA8Unorm {
			swapRow(dstRow)
		}
	}
	return img
}

// encode writes logical RGBA into the surface's storage format.
func encode(s *surface, img *image.RGBA) {
	w, h := int(s.desc.Width), int(s.desc.Height)
	for y := 0; y < h; y++ {
		dstRow := s.data[y*int(s.pitch) : y*int(s.pitch)+w*4]
		copy(dstRow, img.Pix[y*img.Stride:y*img.Stride+w*4])
		if s.desc.Format == gpu.FormatBGRA8Unorm {
			swapRow(dstRow)
		}
	}
}

func swapRedBlue(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		swapRow(img.Pix[i : i+r.Dx()*4])
	}
}

func swapRow(row []byte) {
	for i := 0; i+3 < len(row); i += 4 {
		row[i], row[i+2] = row[i+2], row[i]
	}
}

func alignUp(v, a uint32) uint32 {
	return (v + a - 1) / a * a
}
