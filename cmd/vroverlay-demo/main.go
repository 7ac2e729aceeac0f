// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command vroverlay-demo drives a keyboard-style overlay against the
// in-process simulated runtime: it creates a front and a back overlay,
// attaches them in front of the headset, pushes rendered frames through the
// GPU texture path and reacts to the toggle action.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/vroverlay"
	_ "github.com/gogpu/vroverlay/gpu/software"
	"github.com/gogpu/vroverlay/vr"
	"github.com/gogpu/vroverlay/vr/vrsim"
)

func main() {
	var (
		configDir = flag.String("config", ".", "directory holding "+vroverlay.ConfigFile)
		backend   = flag.String("backend", "", "GPU backend (wgpu, software); empty picks the first that opens")
		width     = flag.Int("width", 512, "texture width")
		height    = flag.Int("height", 192, "texture height")
		frames    = flag.Int("frames", 30, "frames to render")
		distance  = flag.Float64("distance", 0.6, "overlay distance in front of the headset, in meters")
	)
	flag.Parse()

	cfg, err := vroverlay.LoadOptionalConfig(*configDir)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.ApplyEnv()
	if *backend != "" {
		cfg.GPU.Backend = *backend
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	vroverlay.SetLogger(logger)

	rt := vrsim.New()
	scriptRuntime(rt)

	if err := run(rt, cfg, *width, *height, *frames, *distance, logger); err != nil {
		log.Fatal(err)
	}
}

// scriptRuntime adds two tracked controllers and a toggle press that the
// demo picks up halfway through.
func scriptRuntime(rt *vrsim.Runtime) {
	sys := rt.SimSystem()
	for i, role := range []vr.ControllerRole{vr.ControllerRoleLeftHand, vr.ControllerRoleRightHand} {
		x := float32(-0.2 + 0.4*float32(i))
		sys.SetDevice(vr.TrackedDeviceIndex(i+1), vrsim.Device{
			Class: vr.DeviceClassController,
			Role:  role,
			Pose: vr.TrackedDevicePose{
				DeviceToAbsoluteTracking: vr.Matrix34{{1, 0, 0, x}, {0, 1, 0, 1.1}, {0, 0, 1, -0.3}},
				PoseIsValid:              true,
				DeviceIsConnected:        true,
			},
			State:    vr.ControllerState{ButtonPressed: vr.ButtonTrigger},
			HasState: true,
		})
	}

	in := rt.SimInput()
	press := vr.DigitalActionData{Active: true, State: true}
	idle := vr.DigitalActionData{Active: true}
	in.QueueDigital(vroverlay.ToggleActionPath, "",
		idle, idle, idle, press, press, idle, idle, idle, idle, idle)
	in.SetBindings(vroverlay.ToggleActionPath, vr.BindingInfo{
		DevicePathName:  "/user/hand/right",
		InputPathName:   "/input/b",
		ModeName:        "button",
		SlotName:        "click",
		InputSourceType: "digital",
	})
}

func run(rt vr.Runtime, cfg vroverlay.Config, w, h, frames int, distance float64, logger *slog.Logger) error {
	m, err := vroverlay.New(rt, vroverlay.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer m.Close()

	if !m.InputInitialized() {
		if err := m.InitInput("actions.json"); err != nil {
			return err
		}
	}

	front, err := m.CreateOverlay("vroverlay.demo.front", "Demo keyboard")
	if err != nil {
		return err
	}
	back, err := m.CreateOverlay("vroverlay.demo.back", "Demo keyboard (back)")
	if err != nil {
		return err
	}
	for _, o := range []vroverlay.Handle{front, back} {
		if err := m.SetOverlayWidth(o, 0.5); err != nil {
			return err
		}
		if err := m.SetOverlayTransformHMD(o, distance); err != nil {
			return err
		}
		if err := m.ShowOverlay(o); err != nil {
			return err
		}
	}
	// The back face mirrors horizontally.
	if err := m.SetOverlayTextureBounds(back, 1, 0, 0, 1); err != nil {
		return err
	}

	ids, err := m.ControllerIDs()
	if err != nil {
		return err
	}
	logger.Info("controllers", "ids", ids)

	bindings, err := m.CurrentBindings()
	if err != nil {
		return err
	}
	logger.Info("toggle bindings", "labels", bindings.ToggleOverlay)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for frame := 0; frame < frames; frame++ {
		for _, id := range ids {
			st, err := m.ControllerState(id)
			if err != nil {
				return err
			}
			pose, err := m.ControllerPose(id)
			if err != nil {
				return err
			}
			if len(pose) == vroverlay.MatrixLen {
				if _, hit, err := m.ComputeOverlayIntersection(front,
					[]float64{pose[3], pose[7], pose[11]},
					[]float64{-pose[2], -pose[6], -pose[10]}); err == nil && hit && st.TriggerPressed {
					logger.Debug("controller pointing at overlay", "id", id, "frame", frame)
				}
			}
		}

		renderFrame(img, frame)
		err := m.SetOverlayTextures(front, back, img.Pix, uint32(w), uint32(h))
		if err != nil {
			// Without a GPU the raw path still works for one overlay.
			logger.Warn("texture path failed, using raw upload", "err", err)
			if err := m.SetOverlayRaw(front, img.Pix, uint32(w), uint32(h)); err != nil {
				return err
			}
		}

		clicked, err := m.PollToggleClicked()
		if err != nil {
			return err
		}
		if clicked {
			if err := m.ToggleOverlay(front); err != nil {
				return err
			}
			if err := m.ToggleOverlay(back); err != nil {
				return err
			}
			visible, _ := m.IsOverlayVisible(front)
			logger.Info("toggle clicked", "frame", frame, "visible", visible)
		}
		time.Sleep(10 * time.Millisecond)
	}

	for _, o := range []vroverlay.Handle{front, back} {
		if err := m.DestroyOverlay(o); err != nil {
			return err
		}
	}
	logger.Info("demo finished", "frames", frames)
	return nil
}

func renderFrame(img *image.RGBA, frame int) {
	shade := uint8(40 + frame*4%160)
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 20, G: 24, B: shade, A: 230}}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 240, G: 240, B: 240, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(16, img.Bounds().Dy()/2),
	}
	d.DrawString(fmt.Sprintf("vroverlay frame %d", frame))
}
