// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/vroverlay/gpu"
	"github.com/gogpu/vroverlay/gpu/software"
	"github.com/gogpu/vroverlay/internal/session"
	"github.com/gogpu/vroverlay/vr"
	"github.com/gogpu/vroverlay/vr/vrsim"
)

// testManager creates a Manager on its own registry with the default
// configuration, so the environment and other tests cannot leak in.
func testManager(t *testing.T, rt *vrsim.Runtime, reg *session.Registry, opts ...Option) *Manager {
	t.Helper()
	if reg == nil {
		reg = &session.Registry{}
	}
	base := []Option{withRegistry(reg), WithConfig(DefaultConfig())}
	m, err := New(rt, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// softwareManager returns a Manager backed by a software device.
func softwareManager(t *testing.T, devOpts ...software.Option) (*Manager, *vrsim.Runtime, *software.Device) {
	t.Helper()
	rt := vrsim.New()
	dev := software.New(devOpts...)
	t.Cleanup(dev.Destroy)
	return testManager(t, rt, nil, WithDevice(dev)), rt, dev
}

func TestManagersShareOneSession(t *testing.T) {
	rt := vrsim.New()
	reg := &session.Registry{}

	a, err := New(rt, withRegistry(reg), WithConfig(DefaultConfig()), WithoutGPU())
	require.NoError(t, err)
	b, err := New(rt, withRegistry(reg), WithConfig(DefaultConfig()), WithoutGPU())
	require.NoError(t, err)
	assert.Equal(t, 1, rt.InitCalls())
	assert.Equal(t, 2, reg.Count())

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "second Close is a no-op")
	assert.True(t, rt.Initialized())
	assert.Equal(t, 1, reg.Count())

	require.NoError(t, b.Close())
	assert.False(t, rt.Initialized())
	assert.Equal(t, 1, rt.ShutdownCalls())
	assert.Zero(t, reg.Count())
}

func TestNewRequiresHeadset(t *testing.T) {
	rt := vrsim.New()
	rt.SetHMDPresent(false)
	reg := &session.Registry{}

	_, err := New(rt, withRegistry(reg), WithoutGPU())
	assert.ErrorIs(t, err, ErrHeadsetNotFound)
	assert.EqualError(t, err, "VR Headset not found")
	assert.Zero(t, reg.Count())
	assert.Zero(t, rt.InitCalls())
}

func TestNewReportsInitFailure(t *testing.T) {
	rt := vrsim.New()
	rt.FailInit(vr.InitErrorInstallationNotFound)

	_, err := New(rt, withRegistry(&session.Registry{}), WithoutGPU())
	require.Error(t, err)
	assert.ErrorIs(t, err, vr.InitErrorInstallationNotFound)
	assert.Contains(t, err.Error(), "VR_Init failed")
}

func TestNewRejectsNilRuntime(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOptionalInterfacesMissing(t *testing.T) {
	rt := vrsim.New()
	rt.FailInterface(vrsim.SystemInterface, vr.InitErrorInterfaceNotFound)
	rt.FailInterface(vrsim.InputInterface, vr.InitErrorInterfaceNotFound)
	m := testManager(t, rt, nil, WithoutGPU())

	_, err := m.ControllerIDs()
	assert.ErrorIs(t, err, ErrSystemUnavailable)
	_, err = m.ControllerState(1)
	assert.ErrorIs(t, err, ErrSystemUnavailable)
	assert.ErrorIs(t, m.InitInput("/tmp/actions.json"), ErrInputUnavailable)
	_, err = m.PollToggleClicked()
	assert.ErrorIs(t, err, ErrInputUnavailable)

	// The overlay interface still works.
	h, err := m.CreateOverlay("key", "name")
	require.NoError(t, err)
	assert.NoError(t, m.ShowOverlay(h))
}

func TestClosedManagerRefusesCalls(t *testing.T) {
	m, _, _ := softwareManager(t)
	h, err := m.CreateOverlay("key", "name")
	require.NoError(t, err)
	require.NoError(t, m.Close())

	assert.ErrorIs(t, m.ShowOverlay(h), ErrClosed)
	_, err = m.CreateOverlay("other", "name")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.ControllerIDs()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.PollToggleClicked()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.SetOverlayTextures(h, 0, make([]byte, 4), 1, 1), ErrClosed)
	assert.Nil(t, m.GPU())
	assert.False(t, m.InputInitialized())
}

func TestCloseKeepsBorrowedDevice(t *testing.T) {
	m, _, dev := softwareManager(t)
	require.NoError(t, m.EnsureTexture(2, 2))
	assert.Equal(t, 2, dev.LiveSurfaces())

	require.NoError(t, m.Close())
	assert.Zero(t, dev.LiveSurfaces(), "converter surfaces are released")

	_, err := dev.CreateSurface(&gpu.SurfaceDescriptor{Width: 1, Height: 1, Format: gpu.FormatRGBA8Unorm, Usage: gpu.UsageReadback})
	assert.NoError(t, err, "borrowed device is not destroyed")
}

func TestWithoutGPU(t *testing.T) {
	m := testManager(t, vrsim.New(), nil, WithoutGPU())
	assert.Nil(t, m.GPU())

	h, err := m.CreateOverlay("key", "name")
	require.NoError(t, err)
	assert.ErrorIs(t, m.SetOverlayTextures(h, 0, make([]byte, 4), 1, 1), ErrGPUUnavailable)
	assert.ErrorIs(t, m.EnsureTexture(1, 1), ErrGPUUnavailable)
	assert.NoError(t, m.SetOverlayRaw(h, make([]byte, 4), 1, 1))
}

func TestUnknownGPUBackendFallsBack(t *testing.T) {
	m := testManager(t, vrsim.New(), nil, WithGPUBackend("no-such-backend"))
	assert.Nil(t, m.GPU())
	assert.Equal(t, "no-such-backend", m.Config().GPU.Backend)
}

func TestNamedSoftwareBackend(t *testing.T) {
	m := testManager(t, vrsim.New(), nil, WithGPUBackend("software"))
	require.NotNil(t, m.GPU())
	assert.Equal(t, "software", m.GPU().Name())
	require.NoError(t, m.Close())
}

func TestNewInitializesInputFromConfig(t *testing.T) {
	rt := vrsim.New()
	cfg := DefaultConfig()
	cfg.Input.Manifest = "/opt/app/actions.json"
	m := testManager(t, rt, nil, WithConfig(cfg), WithoutGPU())

	assert.True(t, m.InputInitialized())
	assert.Equal(t, "/opt/app/actions.json", rt.SimInput().Manifest())
}

func TestNewToleratesInputInitFailure(t *testing.T) {
	rt := vrsim.New()
	rt.SimInput().Fail("SetActionManifestPath", vr.InputErrorMismatchedActionManifest)
	cfg := DefaultConfig()
	cfg.Input.Manifest = "/opt/app/actions.json"
	m := testManager(t, rt, nil, WithConfig(cfg), WithoutGPU())

	assert.False(t, m.InputInitialized())
}
