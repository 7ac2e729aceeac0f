// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package convert turns 4-byte-per-pixel CPU buffers into GPU textures a
// compositor can consume.
//
// Pixels are written into a BGRA staging surface and drawn into an RGBA
// output surface by a fullscreen-triangle program. Some drivers sample the
// staging surface with red and blue exchanged; a one-pixel probe run after
// the programs are built detects this, and the swizzle program is used
// instead of the passthrough one when it happens.
package convert

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/gogpu/vroverlay/gpu"
)

var (
	// ErrBufferTooSmall is returned by Upload when the buffer holds fewer
	// than height*rowPitch bytes.
	ErrBufferTooSmall = errors.New("convert: pixel buffer too small")

	// ErrPitchTooSmall is returned when a source or mapped row pitch is
	// shorter than width*4 bytes.
	ErrPitchTooSmall = errors.New("convert: row pitch too small")

	// ErrNotReady is returned when surfaces, views, programs or the
	// sampler needed for an operation do not exist.
	ErrNotReady = errors.New("convert: texture set not ready")
)

const labelPrefix = "vroverlay"

// Converter owns the staging and output surfaces, the conversion programs
// and the sampler on one gpu.Device.
//
// A Converter is not safe for concurrent use; callers serialize all GPU
// access.
type Converter struct {
	dev gpu.Device
	ts  textureSet

	vertex      gpu.Program
	passthrough gpu.Program
	swizzle     gpu.Program
	sampler     gpu.Sampler

	probed bool
	swap   bool
}

// New returns a Converter drawing on dev. Nothing is allocated until the
// first call that needs it.
func New(dev gpu.Device) *Converter {
	return &Converter{dev: dev}
}

// Ensure makes the texture set match w×h. It is a no-op when the set
// already matches; otherwise everything is released and recreated.
// Zero dimensions release the set and succeed.
func (c *Converter) Ensure(w, h uint32) error {
	if c.ts.matches(w, h) {
		return nil
	}
	if err := c.ts.ensure(c.dev, w, h, labelPrefix); err != nil {
		return err
	}
	slogger().Debug("convert: texture set allocated", "width", w, "height", h)
	return nil
}

// Size returns the current texture set size; 0×0 when unallocated.
func (c *Converter) Size() (w, h uint32) { return c.ts.width, c.ts.height }

// Output returns the output surface, or nil when unallocated.
func (c *Converter) Output() gpu.Surface { return c.ts.output }

// Upload copies h rows of w pixels from buf, rowPitch bytes apart, into the
// staging surface. The buffer size is checked before the surface is mapped.
func (c *Converter) Upload(buf []byte, rowPitch, w, h uint32) error {
	hi, need := bits.Mul64(uint64(h), uint64(rowPitch))
	if hi != 0 || uint64(len(buf)) < need {
		return fmt.Errorf("%w: have %d bytes, need %d rows of %d", ErrBufferTooSmall, len(buf), h, rowPitch)
	}
	if c.ts.staging == nil || c.ts.width != w || c.ts.height != h {
		return fmt.Errorf("%w: no %dx%d staging surface", ErrNotReady, w, h)
	}
	rowBytes := w * 4
	if rowPitch < rowBytes {
		return fmt.Errorf("%w: source pitch %d < %d", ErrPitchTooSmall, rowPitch, rowBytes)
	}
	return withMappedSurface(c.dev, c.ts.staging, gpu.MapWrite, func(m gpu.Mapping) error {
		if m.RowPitch < rowBytes {
			return fmt.Errorf("%w: mapped pitch %d < %d", ErrPitchTooSmall, m.RowPitch, rowBytes)
		}
		for y := uint32(0); y < h; y++ {
			src := buf[uint64(y)*uint64(rowPitch):][:rowBytes]
			copy(m.Data[uint64(y)*uint64(m.RowPitch):], src)
		}
		return nil
	})
}

// Convert draws the staging surface into the output surface over a w×h
// viewport. w×h must be the texture set size. Input and render target are
// unbound again on every path.
func (c *Converter) Convert(w, h uint32) error {
	if c.ts.width != w || c.ts.height != h {
		return fmt.Errorf("%w: no %dx%d texture set", ErrNotReady, w, h)
	}
	if err := c.ensurePipeline(); err != nil {
		return err
	}
	if !c.ts.complete() || c.vertex == nil || c.passthrough == nil || c.swizzle == nil || c.sampler == nil {
		return ErrNotReady
	}

	fragment := c.passthrough
	if c.swap {
		fragment = c.swizzle
	}
	c.dev.SetRenderTarget(c.ts.outputView)
	c.dev.SetShaderInput(c.ts.stagingView, c.sampler)
	defer func() {
		c.dev.SetShaderInput(nil, nil)
		c.dev.SetRenderTarget(nil)
	}()
	c.dev.SetViewport(gpu.Viewport{Width: float32(w), Height: float32(h)})
	c.dev.SetPrograms(c.vertex, fragment)
	if err := c.dev.Draw(3); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// SwapRedBlue reports whether staging texels are sampled with red and blue
// exchanged. The first call builds the pipeline and runs the probe; the
// result is cached until InvalidateShaders.
func (c *Converter) SwapRedBlue() (bool, error) {
	if err := c.ensurePipeline(); err != nil {
		return false, err
	}
	return c.swap, nil
}

// InvalidateShaders releases the programs and sampler. They are rebuilt,
// and the channel order probed again, on next use. The texture set is kept.
func (c *Converter) InvalidateShaders() {
	c.destroyPipeline()
}

// Destroy releases every object the converter created. The device itself
// is left alone.
func (c *Converter) Destroy() {
	c.destroyPipeline()
	c.ts.destroy(c.dev)
}

func (c *Converter) ensurePipeline() error {
	if c.probed && c.vertex != nil && c.passthrough != nil && c.swizzle != nil && c.sampler != nil {
		return nil
	}
	c.destroyPipeline()

	var err error
	compile := func(label, src, entry string, stage gpu.Stage) gpu.Program {
		if err != nil {
			return nil
		}
		var p gpu.Program
		p, err = c.dev.CompileShader(&gpu.ShaderDescriptor{Label: label, Source: src, EntryPoint: entry, Stage: stage})
		if err != nil {
			err = fmt.Errorf("compile %s: %w", entry, err)
		}
		return p
	}
	c.vertex = compile("fullscreen", fullscreenShaderSource, VertexEntryPoint, gpu.StageVertex)
	c.passthrough = compile("passthrough", passthroughShaderSource, PassthroughEntryPoint, gpu.StageFragment)
	c.swizzle = compile("swizzle", swizzleShaderSource, SwizzleEntryPoint, gpu.StageFragment)
	if err != nil {
		c.destroyPipeline()
		return err
	}
	c.sampler, err = c.dev.CreateSampler(&gpu.SamplerDescriptor{
		Label:     labelPrefix + "_point",
		MagFilter: gpu.FilterNearest,
		MinFilter: gpu.FilterNearest,
	})
	if err != nil {
		c.destroyPipeline()
		return fmt.Errorf("create sampler: %w", err)
	}

	swap, err := c.probe()
	if err != nil {
		c.destroyPipeline()
		return fmt.Errorf("probe channel order: %w", err)
	}
	c.swap = swap
	c.probed = true
	slogger().Debug("convert: pipeline ready", "device", c.dev.Name(), "swap_red_blue", swap)
	return nil
}

func (c *Converter) destroyPipeline() {
	for _, p := range []*gpu.Program{&c.vertex, &c.passthrough, &c.swizzle} {
		if *p != nil {
			c.dev.DestroyProgram(*p)
			*p = nil
		}
	}
	if c.sampler != nil {
		c.dev.DestroySampler(c.sampler)
		c.sampler = nil
	}
	c.probed = false
	c.swap = false
}

// withMappedSurface maps s, runs fn on the mapping and unmaps s on every
// exit path. An Unmap failure is reported along with any error from fn.
func withMappedSurface(dev gpu.Device, s gpu.Surface, mode gpu.MapMode, fn func(gpu.Mapping) error) (err error) {
	m, err := dev.Map(s, mode)
	if err != nil {
		return fmt.Errorf("map %s: %w", s.Descriptor().Label, err)
	}
	defer func() {
		if uerr := dev.Unmap(s); uerr != nil {
			err = errors.Join(err, fmt.Errorf("unmap %s: %w", s.Descriptor().Label, uerr))
		}
	}()
	return fn(m)
}
