// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package convert

import (
	"fmt"

	"github.com/gogpu/vroverlay/gpu"
)

// textureSet holds the staging surface the CPU writes into and the output
// surface the compositor reads, plus a view of each.
//
//   - staging: BGRA8Unorm, CPU-writable, sampled by the conversion program
//   - output:  RGBA8Unorm, render target, handed to the compositor
//
// Either all four objects exist and match width×height, or none do.
type textureSet struct {
	staging     gpu.Surface
	stagingView gpu.View
	output      gpu.Surface
	outputView  gpu.View
	width       uint32
	height      uint32
}

func (ts *textureSet) complete() bool {
	return ts.staging != nil && ts.stagingView != nil && ts.output != nil && ts.outputView != nil
}

func (ts *textureSet) matches(w, h uint32) bool {
	return ts.width == w && ts.height == h && ts.complete()
}

// ensure creates or recreates the surfaces if the requested dimensions
// differ from the current size. If dimensions match and the set is
// complete, this is a no-op. Zero dimensions release the set.
func (ts *textureSet) ensure(dev gpu.Device, w, h uint32, labelPrefix string) error {
	if ts.matches(w, h) {
		return nil
	}
	ts.destroy(dev)
	if w == 0 || h == 0 {
		return nil
	}

	staging, err := dev.CreateSurface(&gpu.SurfaceDescriptor{
		Label:  labelPrefix + "_staging",
		Width:  w,
		Height: h,
		Format: gpu.FormatBGRA8Unorm,
		Usage:  gpu.UsageStaging,
	})
	if err != nil {
		return fmt.Errorf("create staging surface: %w", err)
	}
	ts.staging = staging

	stagingView, err := dev.CreateView(staging)
	if err != nil {
		ts.destroy(dev)
		return fmt.Errorf("create staging view: %w", err)
	}
	ts.stagingView = stagingView

	output, err := dev.CreateSurface(&gpu.SurfaceDescriptor{
		Label:  labelPrefix + "_output",
		Width:  w,
		Height: h,
		Format: gpu.FormatRGBA8Unorm,
		Usage:  gpu.UsageRenderTarget,
	})
	if err != nil {
		ts.destroy(dev)
		return fmt.Errorf("create output surface: %w", err)
	}
	ts.output = output

	outputView, err := dev.CreateView(output)
	if err != nil {
		ts.destroy(dev)
		return fmt.Errorf("create output view: %w", err)
	}
	ts.outputView = outputView

	ts.width = w
	ts.height = h
	return nil
}

// destroy releases all surfaces and views and resets the size.
func (ts *textureSet) destroy(dev gpu.Device) {
	if ts.outputView != nil {
		dev.DestroyView(ts.outputView)
		ts.outputView = nil
	}
	if ts.output != nil {
		dev.DestroySurface(ts.output)
		ts.output = nil
	}
	if ts.stagingView != nil {
		dev.DestroyView(ts.stagingView)
		ts.stagingView = nil
	}
	if ts.staging != nil {
		dev.DestroySurface(ts.staging)
		ts.staging = nil
	}
	ts.width = 0
	ts.height = 0
}
