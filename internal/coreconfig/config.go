// Package coreconfig is coreclj's runtime configuration: GC thresholds,
// namespace bootstrap, and the Go-binding/debug-service settings the rest
// of SPEC_FULL.md's ambient stack needs. Grounded on the teacher's
// internal/ext/config.go yaml-tagged Config/Dep shape.
package coreconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level coreclj.yaml configuration.
type Config struct {
	// GC controls the mark-sweep heap's collection thresholds.
	GC GCConfig `yaml:"gc"`

	// Namespaces lists namespaces to create (and optionally alias) at boot,
	// before the entry file is analyzed.
	Namespaces []NamespaceConfig `yaml:"namespaces"`

	// GoBind lists Go packages whose functions are looked up in internal/ext's
	// fixed registry and bound as builtin_fn Values,
	// mirroring the teacher's funxy.yaml `deps` block (internal/ext).
	GoBind []GoBindSpec `yaml:"go_bind"`

	// Debug configures the optional grpc introspection service.
	Debug DebugConfig `yaml:"debug"`

	// Store configures the optional sqlite-backed GC telemetry sink.
	Store StoreConfig `yaml:"store"`
}

type GCConfig struct {
	// InitialThreshold is the byte threshold before the first collection,
	// per spec.md §4.2's should_collect contract.
	InitialThreshold int64 `yaml:"initial_threshold"`

	// GrowthFactor is parsed and defaults to 2.0, but gc.Heap does not read
	// it: CollectIfNeeded always grows the threshold to twice the live bytes
	// when a collection leaves the heap at or above the threshold.
	GrowthFactor float64 `yaml:"growth_factor,omitempty"`
}

type NamespaceConfig struct {
	Name    string            `yaml:"name"`
	Aliases map[string]string `yaml:"aliases,omitempty"`
	Refer   []string          `yaml:"refer,omitempty"`
}

// GoBindSpec names one Go package and the functions within it to expose as
// builtin_fn Values, the same shape as the teacher's ext.Dep/BindSpec pair
// but trimmed to what internal/ext's BindAll needs.
type GoBindSpec struct {
	Pkg   string   `yaml:"pkg"`
	Funcs []string `yaml:"funcs"`
	As    string   `yaml:"as,omitempty"`
}

type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr,omitempty"`
}

type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

const defaultInitialThreshold = 1 << 20 // 1 MiB, per spec.md §4.2's "modest default"

// Default returns a Config with the defaults a fresh install boots with:
// a "clojure.core" namespace plus a "user" namespace that refers it (no
// aliases), GC thresholds tuned for an interactive session, and the
// debug/store integrations off.
func Default() *Config {
	return &Config{
		GC: GCConfig{InitialThreshold: defaultInitialThreshold, GrowthFactor: 2.0},
		Namespaces: []NamespaceConfig{
			{Name: "clojure.core"},
			{Name: "user", Refer: []string{"clojure.core"}},
		},
	}
}

// Load reads and parses a coreclj.yaml file, applying Default()'s values
// for anything the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("coreconfig: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("coreconfig: parsing %s: %w", path, err)
	}
	if cfg.GC.InitialThreshold == 0 {
		cfg.GC.InitialThreshold = defaultInitialThreshold
	}
	if cfg.GC.GrowthFactor == 0 {
		cfg.GC.GrowthFactor = 2.0
	}
	return cfg, nil
}
