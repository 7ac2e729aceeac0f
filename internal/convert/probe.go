// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package convert

import (
	"fmt"

	"github.com/gogpu/vroverlay/gpu"
)

// probePixel is pure red in BGRA byte order.
var probePixel = [4]byte{0, 0, 255, 255}

// probe draws probePixel through the passthrough program into a 1×1 RGBA
// target and reads it back. Red landing in the blue channel means the
// staging surface is sampled with red and blue exchanged.
// All temporary objects are destroyed before returning.
func (c *Converter) probe() (swap bool, err error) {
	var tmp textureSet
	defer tmp.destroy(c.dev)
	if err := tmp.ensure(c.dev, 1, 1, labelPrefix+"_probe"); err != nil {
		return false, err
	}

	readback, err := c.dev.CreateSurface(&gpu.SurfaceDescriptor{
		Label:  labelPrefix + "_probe_readback",
		Width:  1,
		Height: 1,
		Format: gpu.FormatRGBA8Unorm,
		Usage:  gpu.UsageReadback,
	})
	if err != nil {
		return false, fmt.Errorf("create readback surface: %w", err)
	}
	defer c.dev.DestroySurface(readback)

	err = withMappedSurface(c.dev, tmp.staging, gpu.MapWrite, func(m gpu.Mapping) error {
		copy(m.Data, probePixel[:])
		return nil
	})
	if err != nil {
		return false, err
	}

	c.dev.SetRenderTarget(tmp.outputView)
	c.dev.SetShaderInput(tmp.stagingView, c.sampler)
	c.dev.SetViewport(gpu.Viewport{Width: 1, Height: 1})
	c.dev.SetPrograms(c.vertex, c.passthrough)
	err = c.dev.Draw(3)
	c.dev.SetShaderInput(nil, nil)
	c.dev.SetRenderTarget(nil)
	if err != nil {
		return false, fmt.Errorf("draw: %w", err)
	}

	if err := c.dev.CopySurface(readback, tmp.output); err != nil {
		return false, fmt.Errorf("copy: %w", err)
	}
	var out [4]byte
	err = withMappedSurface(c.dev, readback, gpu.MapRead, func(m gpu.Mapping) error {
		if len(m.Data) < 4 {
			return fmt.Errorf("%w: readback mapping is %d bytes", ErrNotReady, len(m.Data))
		}
		copy(out[:], m.Data)
		return nil
	})
	if err != nil {
		return false, err
	}
	slogger().Debug("convert: channel order probed", "texel", out)
	return out[2] > out[0], nil
}
