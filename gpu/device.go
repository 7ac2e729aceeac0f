// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"
)

// Common device errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("gpu: backend not available")

	// ErrNoBackend is returned by OpenDefault when no registered backend opens.
	ErrNoBackend = errors.New("gpu: no backend could be opened")

	// ErrUnsupportedProgram is returned when a device cannot run a shader entry point.
	ErrUnsupportedProgram = errors.New("gpu: unsupported program")

	// ErrInvalidDescriptor is returned for zero-sized or malformed descriptors.
	ErrInvalidDescriptor = errors.New("gpu: invalid descriptor")

	// ErrNotMapped is returned when a surface is used while mapped, or
	// unmapped without being mapped.
	ErrNotMapped = errors.New("gpu: surface mapping state mismatch")

	// ErrNoRenderTarget is returned by Draw without a bound render target.
	ErrNoRenderTarget = errors.New("gpu: no render target bound")

	// ErrNoShaderInput is returned by Draw without a bound input view and sampler.
	ErrNoShaderInput = errors.New("gpu: no shader input bound")

	// ErrNoPrograms is returned by Draw without bound programs.
	ErrNoPrograms = errors.New("gpu: no programs bound")

	// ErrForeignObject is returned when an object from another device is passed in.
	ErrForeignObject = errors.New("gpu: object does not belong to this device")

	// ErrDestroyed is returned when a destroyed device is used.
	ErrDestroyed = errors.New("gpu: device destroyed")
)

// API names the graphics API behind a device. It decides how the compositor
// interprets a surface's native handle.
type API int

const (
	APIUnknown API = iota
	APIVulkan
	APIMetal
	APIDirectX12
	APIOpenGL
)

func (a API) String() string {
	switch a {
	case APIVulkan:
		return "Vulkan"
	case APIMetal:
		return "Metal"
	case APIDirectX12:
		return "DirectX12"
	case APIOpenGL:
		return "OpenGL"
	default:
		return fmt.Sprintf("API(%d)", int(a))
	}
}

// Format is a 4-byte-per-pixel texel format.
type Format int

const (
	FormatBGRA8Unorm Format = iota + 1
	FormatRGBA8Unorm
)

func (f Format) String() string {
	switch f {
	case FormatBGRA8Unorm:
		return "BGRA8Unorm"
	case FormatRGBA8Unorm:
		return "RGBA8Unorm"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Usage selects what a surface is for.
type Usage int

const (
	// UsageStaging surfaces are CPU-writable (MapWrite) and sampled by programs.
	UsageStaging Usage = iota + 1

	// UsageRenderTarget surfaces are drawn into and can be sampled or copied.
	UsageRenderTarget

	// UsageReadback surfaces receive CopySurface and are CPU-readable (MapRead).
	UsageReadback
)

func (u Usage) String() string {
	switch u {
	case UsageStaging:
		return "Staging"
	case UsageRenderTarget:
		return "RenderTarget"
	case UsageReadback:
		return "Readback"
	default:
		return fmt.Sprintf("Usage(%d)", int(u))
	}
}

// MapMode is the CPU access requested by Map.
type MapMode int

const (
	MapRead MapMode = iota + 1
	MapWrite
)

// Stage is a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota + 1
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Filter selects texel filtering.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// SurfaceDescriptor describes a 2D surface.
type SurfaceDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format Format
	Usage  Usage
}

// Validate reports ErrInvalidDescriptor for zero sizes or unknown enums.
func (d *SurfaceDescriptor) Validate() error {
	switch {
	case d == nil:
		return fmt.Errorf("%w: nil surface descriptor", ErrInvalidDescriptor)
	case d.Width == 0 || d.Height == 0:
		return fmt.Errorf("%w: surface %q is %dx%d", ErrInvalidDescriptor, d.Label, d.Width, d.Height)
	case d.Format != FormatBGRA8Unorm && d.Format != FormatRGBA8Unorm:
		return fmt.Errorf("%w: surface %q format %v", ErrInvalidDescriptor, d.Label, d.Format)
	case d.Usage < UsageStaging || d.Usage > UsageReadback:
		return fmt.Errorf("%w: surface %q usage %v", ErrInvalidDescriptor, d.Label, d.Usage)
	}
	return nil
}

// ShaderDescriptor describes one entry point of a WGSL module.
type ShaderDescriptor struct {
	Label      string
	Source     string
	EntryPoint string
	Stage      Stage
}

// SamplerDescriptor describes a 2D sampler. Addressing is always
// clamp-to-edge.
type SamplerDescriptor struct {
	Label     string
	MagFilter Filter
	MinFilter Filter
}

// Viewport is the draw rectangle in render target pixels.
type Viewport struct {
	X, Y, Width, Height float32
}

// Mapping is a CPU view of a mapped surface. Rows are RowPitch bytes apart;
// RowPitch is at least Width*4 and may be padded.
type Mapping struct {
	Data     []byte
	RowPitch uint32
}

// Surface is a 2D texel surface owned by a Device.
type Surface interface {
	Descriptor() SurfaceDescriptor

	// NativeHandle is the API-level handle handed to the compositor.
	NativeHandle() uintptr
}

// View is a shader-visible view of a Surface.
type View interface {
	Surface() Surface
}

// Program is a compiled shader entry point.
type Program interface {
	Stage() Stage
	EntryPoint() string
}

// Sampler is a texture sampler.
type Sampler interface {
	Descriptor() SamplerDescriptor
}

// Device is a synchronous GPU device.
//
// All calls complete before they return; a Device never exposes fences.
// A Device is not safe for concurrent use.
type Device interface {
	// API reports the graphics API of native handles.
	API() API

	// Name identifies the device for logging.
	Name() string

	CreateSurface(desc *SurfaceDescriptor) (Surface, error)
	DestroySurface(s Surface)
	CreateView(s Surface) (View, error)
	DestroyView(v View)

	// Map gives CPU access to a staging (MapWrite) or readback (MapRead)
	// surface. Every successful Map must be paired with Unmap.
	Map(s Surface, mode MapMode) (Mapping, error)

	// Unmap ends CPU access. For a staging surface it commits the written
	// texels to the GPU; on error the surface keeps its previous content.
	// The surface is unmapped either way.
	Unmap(s Surface) error

	CompileShader(desc *ShaderDescriptor) (Program, error)
	DestroyProgram(p Program)
	CreateSampler(desc *SamplerDescriptor) (Sampler, error)
	DestroySampler(s Sampler)

	// SetRenderTarget binds the draw destination. Nil unbinds.
	SetRenderTarget(v View)

	// SetShaderInput binds the sampled view and sampler. A nil view unbinds.
	SetShaderInput(v View, s Sampler)

	SetPrograms(vertex, fragment Program)
	SetViewport(vp Viewport)

	// Draw runs the bound programs over vertexCount vertices without a
	// vertex buffer.
	Draw(vertexCount uint32) error

	// CopySurface copies src into dst. Both must have the same size and
	// format; dst is typically a readback surface.
	CopySurface(dst, src Surface) error

	// Destroy releases the device. Objects created by it must not be used
	// afterwards.
	Destroy()
}
