// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"math"

	"github.com/gogpu/vroverlay/vr"
)

// Handle identifies an overlay at the host boundary. Valid handles are
// non-negative; zero is the invalid handle.
type Handle int64

// InvalidHandle is never returned by CreateOverlay.
const InvalidHandle Handle = 0

func (h Handle) runtime() (vr.OverlayHandle, error) {
	if h < 0 {
		return vr.InvalidOverlayHandle, invalidArg("Overlay handle must be a non-negative integer")
	}
	return vr.OverlayHandle(h), nil
}

func handleFromRuntime(h vr.OverlayHandle) (Handle, error) {
	if uint64(h) > math.MaxInt64 {
		return InvalidHandle, ErrHandleOverflow
	}
	return Handle(h), nil
}
