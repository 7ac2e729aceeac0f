// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/gogpu/vroverlay/gpu"
	"github.com/gogpu/vroverlay/internal/convert"
	"github.com/gogpu/vroverlay/vr"
)

// BytesPerPixel is the size of one pixel in every buffer vroverlay accepts.
const BytesPerPixel = 4

// ExpectedSize returns the exact buffer length for a w×h frame.
func ExpectedSize(w, h uint32) (int, error) {
	hi, lo := bits.Mul64(uint64(w)*uint64(h), BytesPerPixel)
	if hi != 0 || lo > math.MaxInt {
		return 0, invalidArg("width/height too large: %dx%d", w, h)
	}
	return int(lo), nil
}

func checkBufferSize(buf []byte, w, h uint32) error {
	want, err := ExpectedSize(w, h)
	if err != nil {
		return err
	}
	if len(buf) != want {
		return invalidArg("Buffer size mismatch: expected %d bytes (%dx%dx4), got %d bytes", want, w, h, len(buf))
	}
	return nil
}

// SetOverlayRaw hands an RGBA buffer to the runtime without touching the
// GPU. A 0×0 frame is ignored.
func (m *Manager) SetOverlayRaw(h Handle, buf []byte, w, ht uint32) error {
	if w == 0 || ht == 0 {
		return nil
	}
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	rh, err := h.runtime()
	if err != nil {
		return err
	}
	if err := checkBufferSize(buf, w, ht); err != nil {
		return err
	}
	return callErr("SetOverlayRaw", ov.SetOverlayRaw(rh, buf, w, ht, BytesPerPixel))
}

// EnsureTexture sizes the GPU surfaces for w×h frames. Calling it again
// with the same size is free; a 0×0 size releases the surfaces.
func (m *Manager) EnsureTexture(w, h uint32) error {
	c, err := m.converter()
	if err != nil {
		return err
	}
	if err := c.Ensure(w, h); err != nil {
		return fmt.Errorf("ensure texture %dx%d: %w", w, h, err)
	}
	return nil
}

// UploadPixels copies a tightly packed w×h frame into the staging surface.
// EnsureTexture must have been called with the same size.
func (m *Manager) UploadPixels(buf []byte, w, h uint32) error {
	c, err := m.converter()
	if err != nil {
		return err
	}
	if err := checkBufferSize(buf, w, h); err != nil {
		return err
	}
	if err := c.Upload(buf, w*BytesPerPixel, w, h); err != nil {
		return fmt.Errorf("upload pixels: %w", err)
	}
	return nil
}

// ConvertAndPublish renders the uploaded frame into the RGBA output
// surface and returns it as a compositor texture.
func (m *Manager) ConvertAndPublish(w, h uint32) (vr.Texture, error) {
	c, err := m.converter()
	if err != nil {
		return vr.Texture{}, err
	}
	tt, err := textureType(m.dev.API())
	if err != nil {
		return vr.Texture{}, err
	}
	if err := c.Convert(w, h); err != nil {
		return vr.Texture{}, fmt.Errorf("convert pixels: %w", err)
	}
	out := c.Output()
	if out == nil {
		return vr.Texture{}, fmt.Errorf("convert pixels: %w", convert.ErrNotReady)
	}
	return vr.Texture{
		Handle:     out.NativeHandle(),
		Type:       tt,
		ColorSpace: vr.ColorSpaceAuto,
	}, nil
}

// SetOverlayTextures runs a frame through the GPU path and publishes the
// result to front, and to back unless back is InvalidHandle. The buffer
// may be BGRA or RGBA ordered as the device reads it; the output is
// always RGBA. A 0×0 frame is ignored.
func (m *Manager) SetOverlayTextures(front, back Handle, buf []byte, w, ht uint32) error {
	if w == 0 || ht == 0 {
		return nil
	}
	ov, err := m.overlayAPI()
	if err != nil {
		return err
	}
	fh, err := front.runtime()
	if err != nil {
		return err
	}
	bh, err := back.runtime()
	if err != nil {
		return err
	}
	if _, err := m.converter(); err != nil {
		return err
	}
	if err := checkBufferSize(buf, w, ht); err != nil {
		return err
	}

	if err := m.EnsureTexture(w, ht); err != nil {
		return err
	}
	if err := m.UploadPixels(buf, w, ht); err != nil {
		return err
	}
	tex, err := m.ConvertAndPublish(w, ht)
	if err != nil {
		return err
	}

	if err := ov.SetOverlayTexture(fh, tex); err != nil {
		return callErr("SetOverlayTexture", err)
	}
	if bh != vr.InvalidOverlayHandle {
		if err := ov.SetOverlayTexture(bh, tex); err != nil {
			return callErr("SetOverlayTexture(back)", err)
		}
	}
	return nil
}

// TextureSwapsRedBlue reports whether the device reads staging bytes as
// RGBA, in which case the converter swizzles. It probes the device on
// first use.
func (m *Manager) TextureSwapsRedBlue() (bool, error) {
	c, err := m.converter()
	if err != nil {
		return false, err
	}
	return c.SwapRedBlue()
}

// InvalidateTextureShaders drops the compiled conversion programs and the
// cached channel-order probe. The next frame rebuilds both; the surfaces
// are kept.
func (m *Manager) InvalidateTextureShaders() error {
	c, err := m.converter()
	if err != nil {
		return err
	}
	c.InvalidateShaders()
	return nil
}

func textureType(api gpu.API) (vr.TextureType, error) {
	switch api {
	case gpu.APIVulkan:
		return vr.TextureTypeVulkan, nil
	case gpu.APIMetal:
		return vr.TextureTypeMetal, nil
	case gpu.APIDirectX12:
		return vr.TextureTypeDirectX12, nil
	case gpu.APIOpenGL:
		return vr.TextureTypeOpenGL, nil
	default:
		return vr.TextureTypeInvalid, fmt.Errorf("%w: no compositor texture type for %s", ErrGPUUnavailable, api)
	}
}
