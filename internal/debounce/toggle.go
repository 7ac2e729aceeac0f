// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package debounce turns a noisy boolean input into discrete clicks.
package debounce

// ReleaseThreshold is the number of consecutive released samples required
// before another click can fire.
const ReleaseThreshold = 3

// Toggle reports a click on the first pressed sample after the input has
// been released for at least ReleaseThreshold consecutive samples.
//
// The zero value is ready to use and fires on the first pressed sample.
// Toggle is not safe for concurrent use.
type Toggle struct {
	last     bool
	locked   bool
	released uint8
}

// Sample feeds one sample and reports whether it is a click.
func (t *Toggle) Sample(pressed bool) bool {
	if pressed {
		t.released = 0
	} else if t.released < 255 {
		t.released++
		if t.released >= ReleaseThreshold {
			t.locked = false
		}
	}

	clicked := pressed && !t.locked
	if clicked {
		t.locked = true
	}
	t.last = pressed
	return clicked
}

// Last returns the most recent sample.
func (t *Toggle) Last() bool { return t.last }

// Reset returns the toggle to its zero state.
func (t *Toggle) Reset() { *t = Toggle{} }
