// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/vroverlay/internal/session"
)

// ConfigFile is the name LoadOptionalConfig looks for.
const ConfigFile = "vroverlay.yaml"

// Default runtime interface versions.
const (
	DefaultOverlayInterface = "FnTable:IVROverlay_028"
	DefaultSystemInterface  = "FnTable:IVRSystem_023"
	DefaultInputInterface   = "FnTable:IVRInput_010"
)

// Environment variables read by Config.ApplyEnv.
const (
	EnvOverlayInterface = "OPENVR_IVR_OVERLAY_VERSION"
	EnvSystemInterface  = "OPENVR_IVR_SYSTEM_VERSION"
	EnvInputInterface   = "OPENVR_IVR_INPUT_VERSION"
	EnvGPUBackend       = "VROVERLAY_GPU_BACKEND"
)

// Config represents the optional vroverlay.yaml configuration.
type Config struct {
	Interfaces InterfaceConfig `yaml:"interfaces"`
	GPU        GPUConfig       `yaml:"gpu"`
	Input      InputConfig     `yaml:"input"`
	Log        LogConfig       `yaml:"log"`
}

// InterfaceConfig names the runtime interface versions to request.
type InterfaceConfig struct {
	Overlay string `yaml:"overlay,omitempty"`
	System  string `yaml:"system,omitempty"`
	Input   string `yaml:"input,omitempty"`
}

// GPUConfig selects the GPU backend.
type GPUConfig struct {
	// Backend is a gpu backend name. Empty tries backends in priority order.
	Backend  string `yaml:"backend,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// InputConfig configures action input.
type InputConfig struct {
	// Manifest, when set, is passed to InitInput by New.
	Manifest string `yaml:"manifest,omitempty"`
}

// LogConfig is used by hosts that build their logger from configuration.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is loaded.
func DefaultConfig() Config {
	return Config{
		Interfaces: InterfaceConfig{
			Overlay: DefaultOverlayInterface,
			System:  DefaultSystemInterface,
			Input:   DefaultInputInterface,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML configuration file. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return parseConfig(path, data)
}

// LoadOptionalConfig reads vroverlay.yaml from dir if present and returns
// the defaults otherwise.
func LoadOptionalConfig(dir string) (Config, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	return parseConfig(path, data)
}

func parseConfig(path string, data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	cfg.normalize()
	return cfg, nil
}

// ApplyEnv overrides interface versions and the GPU backend from the
// environment. Empty variables are ignored.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Interfaces.Overlay, EnvOverlayInterface)
	set(&c.Interfaces.System, EnvSystemInterface)
	set(&c.Interfaces.Input, EnvInputInterface)
	set(&c.GPU.Backend, EnvGPUBackend)
}

// normalize trims fields and restores defaults for blank interface names.
func (c *Config) normalize() {
	def := DefaultConfig()
	fill := func(dst *string, fallback string) {
		*dst = strings.TrimSpace(*dst)
		if *dst == "" {
			*dst = fallback
		}
	}
	fill(&c.Interfaces.Overlay, def.Interfaces.Overlay)
	fill(&c.Interfaces.System, def.Interfaces.System)
	fill(&c.Interfaces.Input, def.Interfaces.Input)
	c.GPU.Backend = strings.TrimSpace(c.GPU.Backend)
	c.Input.Manifest = strings.TrimSpace(c.Input.Manifest)
	fill(&c.Log.Level, def.Log.Level)
}

// SlogLevel parses Log.Level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (c Config) versions() session.Versions {
	return session.Versions{
		Overlay: c.Interfaces.Overlay,
		System:  c.Interfaces.System,
		Input:   c.Interfaces.Input,
	}
}
