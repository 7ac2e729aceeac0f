// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vroverlay/gpu"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// copyPitchAlignment is the row alignment required for texture/buffer copies.
const copyPitchAlignment = 256

func init() {
	gpu.Register(gpu.BackendWGPU, func(opts gpu.Options) (gpu.Device, error) {
		if opts.Provider != nil {
			return NewShared(opts.Provider)
		}
		return Open()
	})
}

// Device is a gpu.Device backed by a hal.Device and its queue.
type Device struct {
	api  gpu.API
	name string

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool // device borrowed from a provider; not destroyed by Destroy

	live      map[*surface]bool
	pipelines map[pipelineKey]hal.RenderPipeline
	bindings  *bindingLayouts
	destroyed bool

	target   *view
	input    *view
	sampler  *sampler
	vertex   *program
	fragment *program
	viewport gpu.Viewport
}

var _ gpu.Device = (*Device)(nil)

// Open creates an instance on the first available HAL backend, preferring
// Vulkan, and opens a discrete or integrated adapter when there is one.
func Open() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		for _, b := range hal.AvailableBackends() {
			if b == gputypes.BackendEmpty {
				continue
			}
			if backend, ok = hal.GetBackend(b); ok {
				break
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("wgpu: %w: no HAL backend registered", gpu.ErrBackendNotAvailable)
	}
	return OpenBackend(backend)
}

// OpenBackend opens a device on the given HAL backend.
func OpenBackend(backend hal.Backend) (*Device, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("wgpu: no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}
	d := NewWithHAL(openDev.Device, openDev.Queue, apiOf(backend.Variant()))
	d.instance = instance
	d.external = false
	d.name = selected.Info.Name
	gpu.Logger().Info("wgpu: device opened", "adapter", selected.Info.Name, "api", d.api)
	return d, nil
}

// NewWithHAL wraps an already open HAL device and queue. The returned
// Device does not destroy them.
func NewWithHAL(device hal.Device, queue hal.Queue, api gpu.API) *Device {
	return &Device{
		api:       api,
		name:      "wgpu",
		device:    device,
		queue:     queue,
		external:  true,
		live:      make(map[*surface]bool),
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
	}
}

// NewShared borrows the device of provider. The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func NewShared(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: %w: provider does not expose HAL types", gpu.ErrBackendNotAvailable)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("wgpu: provider HalQueue is not hal.Queue")
	}
	d := NewWithHAL(device, queue, gpu.APIVulkan)
	if name := provider.AdapterInfo().Name; name != "" {
		d.name = name
	}
	gpu.Logger().Info("wgpu: using shared GPU device", "adapter", d.name)
	return d, nil
}

func apiOf(b gputypes.Backend) gpu.API {
	switch b {
	case gputypes.BackendVulkan:
		return gpu.APIVulkan
	case gputypes.BackendMetal:
		return gpu.APIMetal
	case gputypes.BackendDX12:
		return gpu.APIDirectX12
	case gputypes.BackendGL:
		return gpu.APIOpenGL
	default:
		return gpu.APIUnknown
	}
}

func (d *Device) API() gpu.API  { return d.api }
func (d *Device) Name() string { return d.name }

// Destroy releases every object the device still owns. A borrowed HAL
// device is left open.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	for key, p := range d.pipelines {
		d.device.DestroyRenderPipeline(p)
		delete(d.pipelines, key)
	}
	if d.bindings != nil {
		d.bindings.destroy(d.device)
		d.bindings = nil
	}
	for s := range d.live {
		s.release(d.device)
	}
	d.live = make(map[*surface]bool)
	d.target, d.input, d.sampler = nil, nil, nil
	d.vertex, d.fragment = nil, nil
	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device, d.queue, d.instance = nil, nil, nil
	d.destroyed = true
}

func halFormat(f gpu.Format) gputypes.TextureFormat {
	if f == gpu.FormatRGBA8Unorm {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatBGRA8Unorm
}

func alignUp(v, a uint32) uint32 {
	return (v + a - 1) / a * a
}
