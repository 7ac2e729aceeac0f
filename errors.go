// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"errors"
	"fmt"

	"github.com/gogpu/vroverlay/internal/session"
	"github.com/gogpu/vroverlay/vr"
)

var (
	// ErrHeadsetNotFound is returned by New when no headset is attached.
	ErrHeadsetNotFound = session.ErrHeadsetNotFound

	// ErrRuntimeMismatch is returned by New when the process-wide session
	// is already active on a different runtime.
	ErrRuntimeMismatch = session.ErrRuntimeMismatch

	// ErrClosed is returned by every method of a closed Manager.
	ErrClosed = errors.New("vroverlay: manager is closed")

	// ErrSystemUnavailable is returned when the runtime did not provide a
	// system interface.
	ErrSystemUnavailable = errors.New("vroverlay: system interface unavailable")

	// ErrInputUnavailable is returned when the runtime did not provide an
	// input interface.
	ErrInputUnavailable = errors.New("vroverlay: input interface unavailable")

	// ErrGPUUnavailable is returned by the texture path when no GPU device
	// could be opened.
	ErrGPUUnavailable = errors.New("vroverlay: GPU device unavailable")

	// ErrInvalidArgument wraps every argument validation failure.
	ErrInvalidArgument = errors.New("vroverlay: invalid argument")

	// ErrInputNotInitialized is returned by input operations before
	// InitInput succeeded.
	ErrInputNotInitialized = errors.New("SteamVR input is not initialized")

	// ErrHandleOverflow is returned when the runtime hands out an overlay
	// handle that does not fit in a Handle.
	ErrHandleOverflow = errors.New("Overlay handle exceeds i64 range")
)

// CallError reports a failed runtime call together with the runtime's
// error code.
type CallError struct {
	Op   string // runtime entry point, e.g. "SetOverlayTexture"
	Name string // symbolic name of the code
	Code int32
	Err  error // the typed code (vr.OverlayError, vr.InputError, vr.InitError)
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed: %s (code: %d)", e.Op, e.Name, e.Code)
}

func (e *CallError) Unwrap() error { return e.Err }

// callErr wraps err from runtime entry point op. Errors that carry no
// runtime code are wrapped with the operation name only.
func callErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded vr.Coded
	if errors.As(err, &coded) {
		return &CallError{Op: op, Name: coded.Name(), Code: coded.Code(), Err: err}
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
