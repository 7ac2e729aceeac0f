// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/vroverlay/gpu"
	"github.com/gogpu/vroverlay/internal/convert"
)

func newNoopDevice(t *testing.T) *Device {
	t.Helper()
	d, err := OpenBackend(noop.API{})
	if err != nil {
		t.Fatalf("OpenBackend(noop): %v", err)
	}
	t.Cleanup(d.Destroy)
	return d
}

func TestOpenBackendNoop(t *testing.T) {
	d := newNoopDevice(t)
	if d.API() != gpu.APIUnknown {
		t.Errorf("API() = %v, want %v", d.API(), gpu.APIUnknown)
	}
	if d.Name() == "" {
		t.Error("Name() is empty")
	}
	if d.external {
		t.Error("opened device must be owned")
	}
}

func TestSurfaceKinds(t *testing.T) {
	d := newNoopDevice(t)
	tests := []struct {
		usage   gpu.Usage
		wantTex bool
		wantBuf bool
	}{
		{gpu.UsageStaging, true, false},
		{gpu.UsageRenderTarget, true, false},
		{gpu.UsageReadback, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.usage.String(), func(t *testing.T) {
			s, err := d.CreateSurface(&gpu.SurfaceDescriptor{Label: "s", Width: 3, Height: 2, Format: gpu.FormatBGRA8Unorm, Usage: tt.usage})
			if err != nil {
				t.Fatalf("CreateSurface: %v", err)
			}
			ss := s.(*surface)
			if (ss.tex != nil) != tt.wantTex || (ss.buf != nil) != tt.wantBuf {
				t.Errorf("tex=%v buf=%v, want tex=%v buf=%v", ss.tex != nil, ss.buf != nil, tt.wantTex, tt.wantBuf)
			}
			if ss.pitch != copyPitchAlignment {
				t.Errorf("pitch = %d, want %d", ss.pitch, copyPitchAlignment)
			}
			d.DestroySurface(s)
			if len(d.live) != 0 {
				t.Errorf("live surfaces = %d after destroy", len(d.live))
			}
		})
	}
}

func TestMapStagingAndReadback(t *testing.T) {
	d := newNoopDevice(t)
	staging, _ := d.CreateSurface(&gpu.SurfaceDescriptor{Width: 2, Height: 2, Format: gpu.FormatBGRA8Unorm, Usage: gpu.UsageStaging})
	readback, _ := d.CreateSurface(&gpu.SurfaceDescriptor{Width: 2, Height: 2, Format: gpu.FormatRGBA8Unorm, Usage: gpu.UsageReadback})

	m, err := d.Map(staging, gpu.MapWrite)
	if err != nil {
		t.Fatalf("Map staging: %v", err)
	}
	if len(m.Data) != 2*copyPitchAlignment || m.RowPitch != copyPitchAlignment {
		t.Errorf("staging mapping len=%d pitch=%d", len(m.Data), m.RowPitch)
	}
	if _, err := d.Map(staging, gpu.MapWrite); !errors.Is(err, gpu.ErrNotMapped) {
		t.Errorf("double map err = %v, want ErrNotMapped", err)
	}
	if err := d.Unmap(staging); err != nil {
		t.Fatalf("Unmap staging: %v", err)
	}
	if err := d.Unmap(staging); !errors.Is(err, gpu.ErrNotMapped) {
		t.Errorf("second Unmap err = %v, want ErrNotMapped", err)
	}

	if _, err := d.Map(staging, gpu.MapRead); !errors.Is(err, gpu.ErrInvalidDescriptor) {
		t.Errorf("MapRead on staging err = %v, want ErrInvalidDescriptor", err)
	}

	rm, err := d.Map(readback, gpu.MapRead)
	if err != nil {
		t.Fatalf("Map readback: %v", err)
	}
	if len(rm.Data) != 2*copyPitchAlignment {
		t.Errorf("readback mapping len = %d", len(rm.Data))
	}
	if err := d.Unmap(readback); err != nil {
		t.Errorf("Unmap readback: %v", err)
	}
}

var errDeviceLost = errors.New("device lost")

// lostQueue fails every texture upload.
type lostQueue struct{ hal.Queue }

func (lostQueue) WriteTexture(*hal.ImageCopyTexture, []byte, *hal.ImageDataLayout, *hal.Extent3D) error {
	return errDeviceLost
}

func TestUnmapReportsUploadFailure(t *testing.T) {
	d := newNoopDevice(t)
	d.queue = lostQueue{d.queue}

	staging, err := d.CreateSurface(&gpu.SurfaceDescriptor{Label: "staging", Width: 2, Height: 2, Format: gpu.FormatBGRA8Unorm, Usage: gpu.UsageStaging})
	if err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}
	if _, err := d.Map(staging, gpu.MapWrite); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := d.Unmap(staging); !errors.Is(err, errDeviceLost) {
		t.Errorf("Unmap err = %v, want %v", err, errDeviceLost)
	}
	// The surface is unmapped even though the upload failed.
	if _, err := d.Map(staging, gpu.MapWrite); err != nil {
		t.Errorf("Map after failed Unmap: %v", err)
	}
	_ = d.Unmap(staging)

	c := convert.New(d)
	t.Cleanup(c.Destroy)
	if err := c.Ensure(2, 2); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := c.Upload(make([]byte, 16), 8, 2, 2); !errors.Is(err, errDeviceLost) {
		t.Errorf("Upload err = %v, want %v", err, errDeviceLost)
	}
}

func TestDrawAndCopy(t *testing.T) {
	d := newNoopDevice(t)
	staging, _ := d.CreateSurface(&gpu.SurfaceDescriptor{Width: 4, Height: 4, Format: gpu.FormatBGRA8Unorm, Usage: gpu.UsageStaging})
	target, _ := d.CreateSurface(&gpu.SurfaceDescriptor{Width: 4, Height: 4, Format: gpu.FormatRGBA8Unorm, Usage: gpu.UsageRenderTarget})
	readback, _ := d.CreateSurface(&gpu.SurfaceDescriptor{Width: 4, Height: 4, Format: gpu.FormatRGBA8Unorm, Usage: gpu.UsageReadback})

	in, err := d.CreateView(staging)
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}
	out, _ := d.CreateView(target)
	samp, err := d.CreateSampler(&gpu.SamplerDescriptor{Label: "point"})
	if err != nil {
		t.Fatalf("CreateSampler: %v", err)
	}
	vs, err := d.CompileShader(&gpu.ShaderDescriptor{Label: "vs", Source: convert.VertexShaderSource(), EntryPoint: convert.VertexEntryPoint, Stage: gpu.StageVertex})
	if err != nil {
		t.Fatalf("compile vertex: %v", err)
	}
	fs, err := d.CompileShader(&gpu.ShaderDescriptor{Label: "fs", Source: convert.SwizzleShaderSource(), EntryPoint: convert.SwizzleEntryPoint, Stage: gpu.StageFragment})
	if err != nil {
		t.Fatalf("compile fragment: %v", err)
	}

	if err := d.Draw(3); !errors.Is(err, gpu.ErrNoRenderTarget) {
		t.Errorf("unbound Draw err = %v", err)
	}
	d.SetRenderTarget(out)
	d.SetShaderInput(in, samp)
	d.SetPrograms(vs, fs)
	for i := 0; i < 2; i++ {
		if err := d.Draw(3); err != nil {
			t.Fatalf("Draw #%d: %v", i, err)
		}
	}
	if len(d.pipelines) != 1 {
		t.Errorf("pipelines = %d, want 1 cached", len(d.pipelines))
	}

	if err := d.CopySurface(readback, target); err != nil {
		t.Fatalf("CopySurface: %v", err)
	}
	if err := d.CopySurface(target, readback); !errors.Is(err, gpu.ErrInvalidDescriptor) {
		t.Errorf("reverse copy err = %v, want ErrInvalidDescriptor", err)
	}

	d.DestroyProgram(fs)
	if len(d.pipelines) != 0 {
		t.Errorf("pipelines = %d after destroying program", len(d.pipelines))
	}
	if err := d.Draw(3); !errors.Is(err, gpu.ErrNoPrograms) {
		t.Errorf("Draw after DestroyProgram err = %v", err)
	}
}

func TestCompileShaderRejectsUnknownEntryPoint(t *testing.T) {
	d := newNoopDevice(t)
	_, err := d.CompileShader(&gpu.ShaderDescriptor{Source: convert.PassthroughShaderSource(), EntryPoint: "fs_other", Stage: gpu.StageFragment})
	if !errors.Is(err, gpu.ErrUnsupportedProgram) {
		t.Errorf("err = %v, want ErrUnsupportedProgram", err)
	}
}

func TestCompileSPIRV(t *testing.T) {
	words, err := compileSPIRV(convert.VertexShaderSource())
	if err != nil {
		t.Fatalf("compileSPIRV: %v", err)
	}
	const spirvMagic = 0x07230203
	if len(words) == 0 || words[0] != spirvMagic {
		t.Errorf("first word = %#x, want SPIR-V magic", words)
	}
}

type noHALProvider struct{ gpucontext.DeviceProvider }

func TestNewSharedRejectsProviderWithoutHAL(t *testing.T) {
	if _, err := NewShared(noHALProvider{}); !errors.Is(err, gpu.ErrBackendNotAvailable) {
		t.Errorf("err = %v, want ErrBackendNotAvailable", err)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	d, err := OpenBackend(noop.API{})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = d.CreateSurface(&gpu.SurfaceDescriptor{Width: 1, Height: 1, Format: gpu.FormatRGBA8Unorm, Usage: gpu.UsageRenderTarget})
	d.Destroy()
	d.Destroy()
	if _, err := d.CreateSurface(&gpu.SurfaceDescriptor{Width: 1, Height: 1, Format: gpu.FormatRGBA8Unorm, Usage: gpu.UsageRenderTarget}); !errors.Is(err, gpu.ErrDestroyed) {
		t.Errorf("err = %v, want ErrDestroyed", err)
	}
}
