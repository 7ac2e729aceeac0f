// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !vrdebug

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/vroverlay/vr/vrsim"
)

func TestReleaseUnderflowIsNoop(t *testing.T) {
	rt := vrsim.New()
	var r Registry
	assert.NotPanics(t, r.Release)
	assert.Zero(t, r.Count())

	_, err := r.Acquire(rt, testVersions)
	assert.NoError(t, err)
	r.Release()
	r.Release()
	assert.Zero(t, r.Count())
	assert.Equal(t, 1, rt.ShutdownCalls())
}
