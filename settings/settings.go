// Package settings manages user preferences: model selections per provider,
// local model sources, and GPU acceleration.
//
// Settings are stored in a YAML file separate from API keys (which live in
// the keystore). Embedded defaults apply underneath user overrides, so a
// missing or partial file always yields a complete configuration.
package settings

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// GPU acceleration types.
const (
	GPUCpu    = "cpu"
	GPUVulkan = "vulkan"
	GPUCuda   = "cuda"
	GPURocm   = "rocm"
)

// ProviderConfig selects the model for a cloud provider.
type ProviderConfig struct {
	// Model is the default model (e.g. "gpt-5.2-codex")
	Model string `yaml:"model"`
	// CustomModel overrides Model when the user wants a different one
	CustomModel string `yaml:"custom_model,omitempty"`
}

// LocalModelConfig describes where a local GGUF model is fetched from.
type LocalModelConfig struct {
	// Repo is the Hugging Face repository (e.g. "mradermacher/...-GGUF")
	Repo string `yaml:"repo"`
	// Filename is the GGUF file within the repo
	Filename string `yaml:"filename"`
	// CustomURL overrides repo/filename entirely when set
	CustomURL string `yaml:"custom_url,omitempty"`
}

// AppSettings is the on-disk document.
type AppSettings struct {
	Providers   map[string]ProviderConfig   `yaml:"providers"`
	LocalModels map[string]LocalModelConfig `yaml:"local_models"`
	GPU         string                      `yaml:"gpu"`
}

// Manager provides thread-safe access to settings.
type Manager struct {
	mu       sync.RWMutex
	path     string
	settings AppSettings
}

// NewManager loads settings from path, layering the file (if present) over
// the embedded defaults. An empty path selects
// <user config dir>/hexnote/settings.yaml.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine settings directory: %w", err)
		}
		path = filepath.Join(dir, "hexnote", "settings.yaml")
	}

	m := &Manager{path: path}
	if err := yaml.Unmarshal(defaultsYAML, &m.settings); err != nil {
		return nil, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var user AppSettings
	if err := yaml.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	m.merge(user)
	return m, nil
}

// merge layers user settings over the defaults already loaded.
func (m *Manager) merge(user AppSettings) {
	for name, cfg := range user.Providers {
		base := m.settings.Providers[name]
		if cfg.Model != "" {
			base.Model = cfg.Model
		}
		base.CustomModel = cfg.CustomModel
		m.settings.Providers[name] = base
	}
	for name, cfg := range user.LocalModels {
		base := m.settings.LocalModels[name]
		if cfg.Repo != "" {
			base.Repo = cfg.Repo
		}
		if cfg.Filename != "" {
			base.Filename = cfg.Filename
		}
		base.CustomURL = cfg.CustomURL
		m.settings.LocalModels[name] = base
	}
	if user.GPU != "" {
		m.settings.GPU = normalizeGPU(user.GPU)
	}
}

// ProviderModel returns the model to use for a cloud provider, preferring a
// custom override over the configured default.
func (m *Manager) ProviderModel(provider string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := m.settings.Providers[provider]
	if cfg.CustomModel != "" {
		return cfg.CustomModel
	}
	return cfg.Model
}

// SetProviderModel updates the custom model for a provider and saves.
func (m *Manager) SetProviderModel(provider, model string) error {
	m.mu.Lock()
	if m.settings.Providers == nil {
		m.settings.Providers = make(map[string]ProviderConfig)
	}
	cfg := m.settings.Providers[provider]
	cfg.CustomModel = model
	m.settings.Providers[provider] = cfg
	m.mu.Unlock()
	return m.Save()
}

// LocalModel returns the download configuration for a local provider.
func (m *Manager) LocalModel(provider string) (LocalModelConfig, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.settings.LocalModels[provider]
	return cfg, ok
}

// GPU returns the configured acceleration type.
func (m *Manager) GPU() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings.GPU == "" {
		return GPUCpu
	}
	return m.settings.GPU
}

// SetGPU updates the acceleration type and saves. Unknown values fall back
// to CPU.
func (m *Manager) SetGPU(gpu string) error {
	m.mu.Lock()
	m.settings.GPU = normalizeGPU(gpu)
	m.mu.Unlock()
	return m.Save()
}

// GPUOffloadRequested reports whether any GPU backend is selected.
func (m *Manager) GPUOffloadRequested() bool {
	return m.GPU() != GPUCpu
}

// Save writes the current settings to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	raw, err := yaml.Marshal(m.settings)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(m.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

func normalizeGPU(s string) string {
	switch s {
	case GPUVulkan, GPUCuda, GPURocm:
		return s
	default:
		return GPUCpu
	}
}
