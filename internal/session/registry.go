// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package session reference-counts the single process-wide VR runtime
// session shared by every Manager.
//
// The runtime is initialized exactly when the count is above zero: the
// first Acquire calls Init and the Release that brings the count back to
// zero calls Shutdown.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/vroverlay/vr"
)

var (
	// ErrHeadsetNotFound is returned by Acquire when no headset is attached.
	ErrHeadsetNotFound = errors.New("VR Headset not found")

	// ErrRuntimeMismatch is returned by Acquire when a session is already
	// active on a different runtime.
	ErrRuntimeMismatch = errors.New("session: already active on another runtime")
)

// Versions names the interface revisions to request from the runtime.
type Versions struct {
	Overlay string
	System  string
	Input   string
}

// Handles are the interfaces retrieved for one acquirer. System and Input
// are nil when the runtime does not provide them.
type Handles struct {
	Overlay vr.Overlay
	System  vr.System
	Input   vr.Input
	Token   vr.Token
}

// Registry is a reference-counted runtime session. The zero value is ready
// to use.
type Registry struct {
	mu      sync.Mutex
	count   int
	runtime vr.Runtime
	token   vr.Token
}

// Default is the process-wide registry used by vroverlay.New.
var Default = &Registry{}

// Acquire takes a reference on the session, initializing rt when it is the
// first one, and returns the interfaces for v. The lock is held for the
// whole check, init and commit sequence.
func (r *Registry) Acquire(rt vr.Runtime, v Versions) (Handles, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !rt.IsHmdPresent() {
		return Handles{}, ErrHeadsetNotFound
	}

	fresh := r.count == 0
	token := r.token
	if fresh {
		t, err := rt.Init(vr.ApplicationOverlay)
		if err != nil {
			return Handles{}, fmt.Errorf("VR_Init failed: %w", err)
		}
		token = t
		slogger().Info("session: runtime initialized", "token", uint64(t))
	} else if rt != r.runtime {
		return Handles{}, ErrRuntimeMismatch
	}

	overlay, err := rt.Overlay(v.Overlay)
	if err != nil {
		if fresh {
			rt.Shutdown()
			slogger().Info("session: runtime shut down after failed overlay lookup")
		}
		return Handles{}, fmt.Errorf("Failed to get IVROverlay interface %q: %w", v.Overlay, err)
	}
	h := Handles{Overlay: overlay, Token: token}

	if sys, err := rt.System(v.System); err != nil {
		slogger().Debug("session: system interface unavailable", "version", v.System, "err", err)
	} else {
		h.System = sys
	}
	if in, err := rt.Input(v.Input); err != nil {
		slogger().Debug("session: input interface unavailable", "version", v.Input, "err", err)
	} else {
		h.Input = in
	}

	r.count++
	if fresh {
		r.runtime = rt
		r.token = token
	}
	return h, nil
}

// Release drops one reference. The runtime is shut down when the count
// reaches zero. Releasing with no reference held is an invariant violation:
// it is logged, panics in vrdebug builds and is otherwise ignored.
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		slogger().Error("session: release without a matching acquire")
		if debugAssertions {
			panic("session: reference count underflow")
		}
		return
	}
	r.count--
	if r.count == 0 {
		r.runtime.Shutdown()
		slogger().Info("session: runtime shut down")
		r.runtime = nil
		r.token = 0
	}
}

// Count returns the number of references held.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
