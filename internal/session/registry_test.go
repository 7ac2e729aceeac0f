// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/vroverlay/vr"
	"github.com/gogpu/vroverlay/vr/vrsim"
)

var testVersions = Versions{
	Overlay: "FnTable:IVROverlay_028",
	System:  "FnTable:IVRSystem_023",
	Input:   "FnTable:IVRInput_010",
}

func TestAcquireReleaseBracketsOneSession(t *testing.T) {
	rt := vrsim.New()
	var r Registry

	// acquire, acquire, release, acquire, release, release
	_, err := r.Acquire(rt, testVersions)
	require.NoError(t, err)
	_, err = r.Acquire(rt, testVersions)
	require.NoError(t, err)
	r.Release()
	h, err := r.Acquire(rt, testVersions)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count())
	assert.NotNil(t, h.Overlay)
	assert.NotNil(t, h.System)
	assert.NotNil(t, h.Input)
	r.Release()
	assert.True(t, rt.Initialized())
	r.Release()

	assert.Zero(t, r.Count())
	assert.False(t, rt.Initialized())
	assert.Equal(t, 1, rt.InitCalls())
	assert.Equal(t, 1, rt.ShutdownCalls())
}

func TestAcquireConcurrent(t *testing.T) {
	rt := vrsim.New()
	var r Registry
	const n = 32

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Acquire(rt, testVersions); err == nil {
				r.Release()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, r.Count())
	assert.Equal(t, rt.InitCalls(), rt.ShutdownCalls())
	assert.False(t, rt.Initialized())
}

func TestAcquireFailures(t *testing.T) {
	t.Run("no headset", func(t *testing.T) {
		rt := vrsim.New()
		rt.SetHMDPresent(false)
		var r Registry
		_, err := r.Acquire(rt, testVersions)
		assert.ErrorIs(t, err, ErrHeadsetNotFound)
		assert.EqualError(t, err, "VR Headset not found")
		assert.Zero(t, rt.InitCalls())
	})

	t.Run("init failure", func(t *testing.T) {
		rt := vrsim.New()
		rt.FailInit(vr.InitErrorInstallationNotFound)
		var r Registry
		_, err := r.Acquire(rt, testVersions)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "VR_Init failed: ")
		var code vr.InitError
		require.True(t, errors.As(err, &code))
		assert.Equal(t, vr.InitErrorInstallationNotFound, code)
		assert.Zero(t, r.Count())
	})

	t.Run("overlay lookup failure shuts down", func(t *testing.T) {
		rt := vrsim.New()
		rt.FailInterface(vrsim.OverlayInterface, vr.InitErrorInterfaceNotFound)
		var r Registry
		_, err := r.Acquire(rt, testVersions)
		assert.ErrorIs(t, err, vr.InitErrorInterfaceNotFound)
		assert.ErrorContains(t, err, "Failed to get IVROverlay interface")
		assert.Zero(t, r.Count())
		assert.Equal(t, 1, rt.ShutdownCalls())
		assert.False(t, rt.Initialized())
	})

	t.Run("overlay lookup failure keeps shared session", func(t *testing.T) {
		rt := vrsim.New()
		var r Registry
		_, err := r.Acquire(rt, testVersions)
		require.NoError(t, err)
		rt.FailInterface(vrsim.OverlayInterface, vr.InitErrorInterfaceNotFound)
		_, err = r.Acquire(rt, testVersions)
		require.Error(t, err)
		assert.Equal(t, 1, r.Count())
		assert.True(t, rt.Initialized())
	})

	t.Run("runtime mismatch", func(t *testing.T) {
		var r Registry
		_, err := r.Acquire(vrsim.New(), testVersions)
		require.NoError(t, err)
		_, err = r.Acquire(vrsim.New(), testVersions)
		assert.ErrorIs(t, err, ErrRuntimeMismatch)
		assert.Equal(t, 1, r.Count())
	})
}

func TestOptionalInterfaces(t *testing.T) {
	rt := vrsim.New()
	rt.FailInterface(vrsim.SystemInterface, vr.InitErrorInterfaceNotFound)
	var r Registry
	h, err := r.Acquire(rt, Versions{Overlay: testVersions.Overlay, System: testVersions.System, Input: "IVRBogus_001"})
	require.NoError(t, err)
	defer r.Release()
	assert.NotNil(t, h.Overlay)
	assert.Nil(t, h.System)
	assert.Nil(t, h.Input)
	assert.NotZero(t, h.Token)
}
