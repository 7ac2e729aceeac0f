// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"errors"
	"testing"

	"github.com/gogpu/vroverlay/vr"
)

func TestCallError(t *testing.T) {
	tests := []struct {
		op   string
		err  error
		want string
	}{
		{"SetOverlayTexture", vr.OverlayErrorInvalidTexture, "SetOverlayTexture failed: VROverlayError_InvalidTexture (code: 24)"},
		{"UpdateActionState", vr.InputErrorNoSteam, "UpdateActionState failed: VRInputError_NoSteam (code: 5)"},
		{"VR_Init", vr.InitErrorHmdNotFound, "VR_Init failed: VRInitError_Init_HmdNotFound: Hmd Not Found (108) (code: 108)"},
	}
	for _, tt := range tests {
		err := callErr(tt.op, tt.err)
		if got := err.Error(); got != tt.want {
			t.Errorf("callErr(%q, %v) = %q, want %q", tt.op, tt.err, got, tt.want)
		}
		if !errors.Is(err, tt.err) {
			t.Errorf("callErr(%q, %v) does not unwrap to the code", tt.op, tt.err)
		}
		var ce *CallError
		if !errors.As(err, &ce) || ce.Op != tt.op {
			t.Errorf("callErr(%q, %v) is not a *CallError with Op %q", tt.op, tt.err, tt.op)
		}
	}
}

func TestCallErrorPlainErrors(t *testing.T) {
	if err := callErr("ShowOverlay", nil); err != nil {
		t.Errorf("callErr(nil) = %v, want nil", err)
	}

	base := errors.New("bridge disconnected")
	err := callErr("ShowOverlay", base)
	if err.Error() != "ShowOverlay failed: bridge disconnected" {
		t.Errorf("callErr(plain) = %q", err)
	}
	if !errors.Is(err, base) {
		t.Error("callErr(plain) does not wrap the original error")
	}
	var ce *CallError
	if errors.As(err, &ce) {
		t.Error("plain error should not become a *CallError")
	}
}
