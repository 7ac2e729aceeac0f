// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/vroverlay/gpu"
	"github.com/gogpu/vroverlay/gpu/software"
	"github.com/gogpu/vroverlay/internal/convert"
	"github.com/gogpu/vroverlay/vr"
)

// readOutput copies the converter's output surface back to the CPU as
// tight RGBA rows.
func readOutput(t *testing.T, m *Manager, dev *software.Device) []byte {
	t.Helper()
	out := m.conv.Output()
	require.NotNil(t, out)
	d := out.Descriptor()

	rb, err := dev.CreateSurface(&gpu.SurfaceDescriptor{Width: d.Width, Height: d.Height, Format: gpu.FormatRGBA8Unorm, Usage: gpu.UsageReadback})
	require.NoError(t, err)
	defer dev.DestroySurface(rb)
	require.NoError(t, dev.CopySurface(rb, out))

	mp, err := dev.Map(rb, gpu.MapRead)
	require.NoError(t, err)
	defer func() { assert.NoError(t, dev.Unmap(rb)) }()
	pixels := make([]byte, 0, d.Width*d.Height*4)
	for y := uint32(0); y < d.Height; y++ {
		pixels = append(pixels, mp.Data[y*mp.RowPitch:y*mp.RowPitch+d.Width*4]...)
	}
	return pixels
}

func TestExpectedSize(t *testing.T) {
	tests := []struct {
		w, h uint32
		want int
	}{
		{0, 0, 0},
		{1, 1, 4},
		{3, 2, 24},
		{1920, 1080, 1920 * 1080 * 4},
	}
	for _, tt := range tests {
		got, err := ExpectedSize(tt.w, tt.h)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%dx%d", tt.w, tt.h)
	}

	_, err := ExpectedSize(math.MaxUint32, math.MaxUint32)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSetOverlayRaw(t *testing.T) {
	m, rt, _ := softwareManager(t)
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	require.NoError(t, m.SetOverlayRaw(h, nil, 0, 0), "0x0 is a no-op")
	assert.Empty(t, overlayState(t, rt, h).Raw)

	err = m.SetOverlayRaw(h, make([]byte, 7), 1, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "Buffer size mismatch: expected 8 bytes (1x2x4), got 7 bytes")

	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, m.SetOverlayRaw(h, buf, 2, 1))
	st := overlayState(t, rt, h)
	assert.Equal(t, buf, st.Raw)
	assert.Equal(t, uint32(2), st.RawWidth)
	assert.Equal(t, uint32(1), st.RawHeight)
}

func TestSetOverlayTexturesPublishesRGBA(t *testing.T) {
	m, rt, dev := softwareManager(t)
	front, err := m.CreateOverlay("front", "f")
	require.NoError(t, err)
	back, err := m.CreateOverlay("back", "b")
	require.NoError(t, err)

	bgra := []byte{
		0, 0, 255, 255, // red
		255, 0, 0, 255, // blue
	}
	require.NoError(t, m.SetOverlayTextures(front, back, bgra, 2, 1))

	fs := overlayState(t, rt, front)
	bs := overlayState(t, rt, back)
	assert.Equal(t, 1, fs.TextureSet)
	assert.Equal(t, 1, bs.TextureSet)
	assert.Equal(t, vr.TextureTypeVulkan, fs.Texture.Type)
	assert.Equal(t, vr.ColorSpaceAuto, fs.Texture.ColorSpace)
	assert.Equal(t, m.conv.Output().NativeHandle(), fs.Texture.Handle)
	assert.Equal(t, fs.Texture, bs.Texture)

	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, readOutput(t, m, dev))

	swap, err := m.TextureSwapsRedBlue()
	require.NoError(t, err)
	assert.False(t, swap)
}

func TestSetOverlayTexturesSwizzlesRGBAStaging(t *testing.T) {
	m, _, dev := softwareManager(t, software.WithStagingFormat(gpu.FormatRGBA8Unorm))
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	require.NoError(t, m.SetOverlayTextures(h, InvalidHandle, []byte{0, 0, 255, 255}, 1, 1))
	assert.Equal(t, []byte{255, 0, 0, 255}, readOutput(t, m, dev))

	swap, err := m.TextureSwapsRedBlue()
	require.NoError(t, err)
	assert.True(t, swap)
}

func TestSetOverlayTexturesSkipsInvalidBack(t *testing.T) {
	m, rt, _ := softwareManager(t)
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	require.NoError(t, m.SetOverlayTextures(h, InvalidHandle, make([]byte, 16), 2, 2))
	assert.Equal(t, 1, overlayState(t, rt, h).TextureSet)
}

func TestSetOverlayTexturesReusesSurfaces(t *testing.T) {
	m, _, dev := softwareManager(t)
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	require.NoError(t, m.SetOverlayTextures(h, 0, make([]byte, 16), 2, 2))
	created := dev.Stats().SurfacesCreated
	handle := m.conv.Output().NativeHandle()

	require.NoError(t, m.SetOverlayTextures(h, 0, make([]byte, 16), 2, 2))
	assert.Equal(t, created, dev.Stats().SurfacesCreated, "same size allocates nothing")
	assert.Equal(t, handle, m.conv.Output().NativeHandle())

	require.NoError(t, m.SetOverlayTextures(h, 0, make([]byte, 4*3*2), 3, 2))
	assert.NotEqual(t, handle, m.conv.Output().NativeHandle(), "new size reallocates")
}

func TestSetOverlayTexturesValidatesBeforeGPU(t *testing.T) {
	m, rt, dev := softwareManager(t)
	h, err := m.CreateOverlay("k", "n")
	require.NoError(t, err)

	require.NoError(t, m.SetOverlayTextures(h, 0, nil, 0, 0), "0x0 is a no-op")

	err = m.SetOverlayTextures(h, 0, make([]byte, 15), 2, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, dev.Stats().SurfacesCreated)
	assert.Zero(t, dev.Stats().Maps)
	assert.Zero(t, overlayState(t, rt, h).TextureSet)

	assert.ErrorIs(t, m.SetOverlayTextures(-1, 0, make([]byte, 16), 2, 2), ErrInvalidArgument)
	assert.ErrorIs(t, m.SetOverlayTextures(h, -2, make([]byte, 16), 2, 2), ErrInvalidArgument)
}

func TestSetOverlayTexturesBackFailure(t *testing.T) {
	m, rt, _ := softwareManager(t)
	front, err := m.CreateOverlay("front", "f")
	require.NoError(t, err)
	back, err := m.CreateOverlay("back", "b")
	require.NoError(t, err)
	require.NoError(t, m.DestroyOverlay(back))

	err = m.SetOverlayTextures(front, back, make([]byte, 4), 1, 1)
	var ce *CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "SetOverlayTexture(back)", ce.Op)
	assert.ErrorIs(t, err, vr.OverlayErrorUnknownOverlay)
	assert.Equal(t, 1, overlayState(t, rt, front).TextureSet, "front was published first")
}

func TestTextureStepwise(t *testing.T) {
	m, _, dev := softwareManager(t)

	require.NoError(t, m.EnsureTexture(1, 1))
	assert.ErrorIs(t, m.UploadPixels(make([]byte, 3), 1, 1), ErrInvalidArgument)
	require.NoError(t, m.UploadPixels([]byte{0, 255, 0, 128}, 1, 1))

	tex, err := m.ConvertAndPublish(1, 1)
	require.NoError(t, err)
	assert.Equal(t, vr.TextureTypeVulkan, tex.Type)
	assert.NotZero(t, tex.Handle)
	assert.Equal(t, []byte{0, 255, 0, 128}, readOutput(t, m, dev))

	require.NoError(t, m.InvalidateTextureShaders())
	_, err = m.ConvertAndPublish(1, 1)
	require.NoError(t, err, "programs are rebuilt on demand")

	err = m.UploadPixels(make([]byte, 16), 2, 2)
	assert.Error(t, err, "staging surface has the wrong size")

	require.NoError(t, m.EnsureTexture(0, 0))
	assert.Zero(t, dev.LiveSurfaces())
}

func TestConvertAndPublishSizeMismatch(t *testing.T) {
	m, _, dev := softwareManager(t)

	require.NoError(t, m.EnsureTexture(2, 2))
	require.NoError(t, m.UploadPixels(make([]byte, 16), 2, 2))
	draws := dev.Stats().Draws

	_, err := m.ConvertAndPublish(640, 480)
	require.ErrorIs(t, err, convert.ErrNotReady)
	assert.Contains(t, err.Error(), "convert pixels")
	assert.Equal(t, draws, dev.Stats().Draws)

	_, err = m.ConvertAndPublish(2, 2)
	assert.NoError(t, err)
}

func TestTextureType(t *testing.T) {
	tests := []struct {
		api  gpu.API
		want vr.TextureType
	}{
		{gpu.APIVulkan, vr.TextureTypeVulkan},
		{gpu.APIMetal, vr.TextureTypeMetal},
		{gpu.APIDirectX12, vr.TextureTypeDirectX12},
		{gpu.APIOpenGL, vr.TextureTypeOpenGL},
	}
	for _, tt := range tests {
		got, err := textureType(tt.api)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s", tt.api)
	}
	_, err := textureType(gpu.APIUnknown)
	assert.ErrorIs(t, err, ErrGPUUnavailable)
}

func TestConvertAndPublishUnknownAPI(t *testing.T) {
	m, _, _ := softwareManager(t, software.WithAPI(gpu.APIUnknown))
	require.NoError(t, m.EnsureTexture(1, 1))
	_, err := m.ConvertAndPublish(1, 1)
	assert.ErrorIs(t, err, ErrGPUUnavailable)
}
