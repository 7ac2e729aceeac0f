// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"errors"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gogpu/vroverlay/vr"
)

// Action manifest paths the Manager binds to.
const (
	ActionSetPath     = "/actions/vrkb2"
	ToggleActionPath  = "/actions/vrkb2/in/toggle_overlay"
	TriggerActionPath = "/actions/vrkb2/in/trigger_click"
	GripActionPath    = "/actions/vrkb2/in/grip_click"
	LeftHandPath      = "/user/hand/left"
	RightHandPath     = "/user/hand/right"
)

// maxBindings is the most bindings read per action.
const maxBindings = 16

// actionCache holds the resolved action handles. It is either complete
// (initialized) or zero.
type actionCache struct {
	initialized bool
	set         vr.ActionSetHandle
	toggle      vr.ActionHandle
	trigger     vr.ActionHandle
	grip        vr.ActionHandle
	leftHand    vr.InputValueHandle
	rightHand   vr.InputValueHandle
}

// CurrentBindings lists the controller inputs bound to each action, as
// "device input mode slot source" labels.
type CurrentBindings struct {
	Initialized     bool
	ToggleOverlay   []string
	TriggerBindings []string
	GripBindings    []string
	TriggerBound    bool
	GripBound       bool
}

// InitInput loads the action manifest and resolves the action set, the
// toggle, trigger and grip actions and both hand sources. Nothing is
// committed unless every lookup succeeds. A successful call resets the
// toggle debouncer.
func (m *Manager) InitInput(manifestPath string) error {
	in, err := m.inputAPI()
	if err != nil {
		return err
	}
	if err := in.SetActionManifestPath(manifestPath); err != nil {
		return callErr("SetActionManifestPath", err)
	}

	var c actionCache
	if c.set, err = in.GetActionSetHandle(ActionSetPath); err != nil {
		return callErr("GetActionSetHandle", err)
	}
	for _, a := range []struct {
		path string
		dst  *vr.ActionHandle
	}{
		{ToggleActionPath, &c.toggle},
		{TriggerActionPath, &c.trigger},
		{GripActionPath, &c.grip},
	} {
		if *a.dst, err = in.GetActionHandle(a.path); err != nil {
			return callErr("GetActionHandle", err)
		}
	}
	if c.leftHand, err = in.GetInputSourceHandle(LeftHandPath); err != nil {
		return callErr("GetInputSourceHandle", err)
	}
	if c.rightHand, err = in.GetInputSourceHandle(RightHandPath); err != nil {
		return callErr("GetInputSourceHandle", err)
	}

	c.initialized = true
	m.actions = c
	m.toggle.Reset()
	slogger().Debug("action input initialized", "manifest", manifestPath)
	return nil
}

// InputInitialized reports whether InitInput succeeded.
func (m *Manager) InputInitialized() bool { return !m.closed && m.actions.initialized }

// PollToggleClicked updates the action state and reports whether the
// toggle action was clicked since the last poll. A held or flickering
// button reports one click until it has been released for a few polls.
func (m *Manager) PollToggleClicked() (bool, error) {
	in, err := m.inputAPI()
	if err != nil {
		return false, err
	}
	if !m.actions.initialized {
		return false, ErrInputNotInitialized
	}

	sets := []vr.ActiveActionSet{{
		ActionSet:          m.actions.set,
		RestrictedToDevice: vr.InvalidInputValueHandle,
		SecondaryActionSet: vr.InvalidActionSetHandle,
	}}
	if err := in.UpdateActionState(sets); err != nil {
		return false, callErr("UpdateActionState", err)
	}
	d, err := in.GetDigitalActionData(m.actions.toggle, vr.InvalidInputValueHandle)
	if err != nil {
		return false, callErr("GetDigitalActionData", err)
	}
	return m.toggle.Sample(d.Active && d.State), nil
}

// OpenBindingUI opens the runtime's binding editor for the action set.
func (m *Manager) OpenBindingUI(appKey string, showOnDesktop bool) error {
	in, err := m.inputAPI()
	if err != nil {
		return err
	}
	if !m.actions.initialized {
		return ErrInputNotInitialized
	}
	if strings.TrimSpace(appKey) == "" {
		return invalidArg("app key is required")
	}
	return callErr("OpenBindingUI",
		in.OpenBindingUI(appKey, m.actions.set, vr.InvalidInputValueHandle, showOnDesktop))
}

// CurrentBindings returns the bindings of the toggle, trigger and grip
// actions. Before InitInput it returns an uninitialized, empty result.
func (m *Manager) CurrentBindings() (CurrentBindings, error) {
	in, err := m.inputAPI()
	if err != nil {
		return CurrentBindings{}, err
	}
	if !m.actions.initialized {
		return CurrentBindings{
			ToggleOverlay:   []string{},
			TriggerBindings: []string{},
			GripBindings:    []string{},
		}, nil
	}

	toggle, err := bindingLabels(in, m.actions.toggle)
	if err != nil {
		return CurrentBindings{}, err
	}
	trigger, err := bindingLabels(in, m.actions.trigger)
	if err != nil {
		return CurrentBindings{}, err
	}
	grip, err := bindingLabels(in, m.actions.grip)
	if err != nil {
		return CurrentBindings{}, err
	}
	return CurrentBindings{
		Initialized:     true,
		ToggleOverlay:   toggle,
		TriggerBindings: trigger,
		GripBindings:    grip,
		TriggerBound:    len(trigger) > 0,
		GripBound:       len(grip) > 0,
	}, nil
}

// bindingLabels returns the sorted, deduplicated labels of an action's
// bindings.
func bindingLabels(in vr.Input, action vr.ActionHandle) ([]string, error) {
	infos, err := in.GetActionBindingInfo(action, maxBindings)
	if err != nil && !errors.Is(err, vr.InputErrorBufferTooSmall) {
		if errors.Is(err, vr.InputErrorNoData) || errors.Is(err, vr.InputErrorNoActiveActionSet) {
			return []string{}, nil
		}
		return nil, callErr("GetActionBindingInfo", err)
	}

	seen := make(map[string]bool, len(infos))
	labels := make([]string, 0, len(infos))
	for _, b := range infos {
		l := bindingLabel(b)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		labels = append(labels, l)
	}
	collate.New(language.Und).SortStrings(labels)
	return labels, nil
}

func bindingLabel(b vr.BindingInfo) string {
	l := strings.Join([]string{b.DevicePathName, b.InputPathName, b.ModeName, b.SlotName, b.InputSourceType}, " ")
	// Empty parts leave runs of spaces behind.
	return strings.Join(strings.Fields(l), " ")
}
