// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrsim

import (
	"strings"
	"sync"

	"github.com/gogpu/vroverlay/vr"
)

// BindingUIRequest records one OpenBindingUI call.
type BindingUIRequest struct {
	AppKey        string
	ActionSet     vr.ActionSetHandle
	Device        vr.InputValueHandle
	ShowOnDesktop bool
}

type digitalKey struct {
	action vr.ActionHandle
	source vr.InputValueHandle
}

// Input is the simulated vr.Input.
//
// Paths are resolved to handles on first lookup, the way the runtime does
// it: the same path always yields the same handle. Digital action data is
// keyed by (action, source); the invalid source is the wildcard. Data queued
// with QueueDigital advances by one sample per UpdateActionState.
type Input struct {
	mu sync.Mutex

	manifest string
	next     uint64
	handles  map[string]uint64

	active      []vr.ActiveActionSet
	updateCalls int

	current  map[digitalKey]vr.DigitalActionData
	queued   map[digitalKey][]vr.DigitalActionData
	bindings map[vr.ActionHandle][]vr.BindingInfo

	bindingUI []BindingUIRequest
	faults    map[string]vr.InputError
}

var _ vr.Input = (*Input)(nil)

func newInput() *Input {
	return &Input{
		handles:  make(map[string]uint64),
		current:  make(map[digitalKey]vr.DigitalActionData),
		queued:   make(map[digitalKey][]vr.DigitalActionData),
		bindings: make(map[vr.ActionHandle][]vr.BindingInfo),
		faults:   make(map[string]vr.InputError),
	}
}

// Fail makes the named method return code. Pass vr.InputErrorNone to clear.
func (in *Input) Fail(method string, code vr.InputError) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if code == vr.InputErrorNone {
		delete(in.faults, method)
		return
	}
	in.faults[method] = code
}

// Manifest returns the last manifest path set.
func (in *Input) Manifest() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.manifest
}

// UpdateCalls returns how many times UpdateActionState succeeded.
func (in *Input) UpdateCalls() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.updateCalls
}

// BindingUIRequests returns the OpenBindingUI calls seen so far.
func (in *Input) BindingUIRequests() []BindingUIRequest {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]BindingUIRequest(nil), in.bindingUI...)
}

// SetDigital sets the current data of an action for a source path. An empty
// source sets the wildcard entry.
func (in *Input) SetDigital(actionPath, sourcePath string, data vr.DigitalActionData) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.current[in.keyLocked(actionPath, sourcePath)] = data
}

// QueueDigital appends samples that UpdateActionState will apply one at a
// time to the (action, source) entry.
func (in *Input) QueueDigital(actionPath, sourcePath string, samples ...vr.DigitalActionData) {
	in.mu.Lock()
	defer in.mu.Unlock()
	k := in.keyLocked(actionPath, sourcePath)
	in.queued[k] = append(in.queued[k], samples...)
}

// SetBindings replaces the bindings reported for an action.
func (in *Input) SetBindings(actionPath string, bindings ...vr.BindingInfo) {
	in.mu.Lock()
	defer in.mu.Unlock()
	h := vr.ActionHandle(in.resolveLocked(actionPath))
	in.bindings[h] = append([]vr.BindingInfo(nil), bindings...)
}

func (in *Input) keyLocked(actionPath, sourcePath string) digitalKey {
	k := digitalKey{action: vr.ActionHandle(in.resolveLocked(actionPath))}
	if sourcePath != "" {
		k.source = vr.InputValueHandle(in.resolveLocked(sourcePath))
	}
	return k
}

func (in *Input) resolveLocked(path string) uint64 {
	path = strings.ToLower(path)
	if h, ok := in.handles[path]; ok {
		return h
	}
	in.next++
	in.handles[path] = in.next
	return in.next
}

func (in *Input) knownLocked(h uint64) bool {
	for _, v := range in.handles {
		if v == h {
			return true
		}
	}
	return false
}

func (in *Input) fault(method string) error {
	if code, ok := in.faults[method]; ok {
		return code
	}
	return nil
}

func (in *Input) SetActionManifestPath(path string) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := in.fault("SetActionManifestPath"); err != nil {
		return err
	}
	if path == "" {
		return vr.InputErrorInvalidParam
	}
	in.manifest = path
	return nil
}

func (in *Input) lookup(method, prefix, name string) (uint64, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := in.fault(method); err != nil {
		return 0, err
	}
	if !strings.HasPrefix(name, prefix) {
		return 0, vr.InputErrorNameNotFound
	}
	return in.resolveLocked(name), nil
}

func (in *Input) GetActionSetHandle(name string) (vr.ActionSetHandle, error) {
	h, err := in.lookup("GetActionSetHandle", "/actions/", name)
	return vr.ActionSetHandle(h), err
}

func (in *Input) GetActionHandle(name string) (vr.ActionHandle, error) {
	h, err := in.lookup("GetActionHandle", "/actions/", name)
	return vr.ActionHandle(h), err
}

func (in *Input) GetInputSourceHandle(path string) (vr.InputValueHandle, error) {
	h, err := in.lookup("GetInputSourceHandle", "/user/", path)
	return vr.InputValueHandle(h), err
}

func (in *Input) UpdateActionState(sets []vr.ActiveActionSet) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := in.fault("UpdateActionState"); err != nil {
		return err
	}
	if len(sets) == 0 {
		return vr.InputErrorNoActiveActionSet
	}
	for _, s := range sets {
		if !in.knownLocked(uint64(s.ActionSet)) {
			return vr.InputErrorInvalidHandle
		}
	}
	in.active = append(in.active[:0], sets...)
	in.updateCalls++
	for k, d := range in.current {
		d.Changed = false
		in.current[k] = d
	}
	for k, q := range in.queued {
		if len(q) == 0 {
			continue
		}
		prev := in.current[k]
		next := q[0]
		next.Changed = next.State != prev.State
		in.current[k] = next
		in.queued[k] = q[1:]
	}
	return nil
}

func (in *Input) GetDigitalActionData(action vr.ActionHandle, restrictToDevice vr.InputValueHandle) (vr.DigitalActionData, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := in.fault("GetDigitalActionData"); err != nil {
		return vr.DigitalActionData{}, err
	}
	if !in.knownLocked(uint64(action)) {
		return vr.DigitalActionData{}, vr.InputErrorInvalidHandle
	}
	if len(in.active) == 0 {
		return vr.DigitalActionData{}, vr.InputErrorNoActiveActionSet
	}
	return in.current[digitalKey{action: action, source: restrictToDevice}], nil
}

func (in *Input) GetActionBindingInfo(action vr.ActionHandle, limit int) ([]vr.BindingInfo, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := in.fault("GetActionBindingInfo"); err != nil {
		return nil, err
	}
	if !in.knownLocked(uint64(action)) {
		return nil, vr.InputErrorInvalidHandle
	}
	all := in.bindings[action]
	if len(all) == 0 {
		return nil, vr.InputErrorNoData
	}
	if limit >= 0 && len(all) > limit {
		return append([]vr.BindingInfo(nil), all[:limit]...), vr.InputErrorBufferTooSmall
	}
	return append([]vr.BindingInfo(nil), all...), nil
}

func (in *Input) OpenBindingUI(appKey string, set vr.ActionSetHandle, device vr.InputValueHandle, showOnDesktop bool) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := in.fault("OpenBindingUI"); err != nil {
		return err
	}
	in.bindingUI = append(in.bindingUI, BindingUIRequest{
		AppKey:        appKey,
		ActionSet:     set,
		Device:        device,
		ShowOnDesktop: showOnDesktop,
	})
	return nil
}
