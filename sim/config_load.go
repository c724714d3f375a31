package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ConfigFromJSON decodes r onto DefaultConfig. Omitted fields keep their
// defaults and unknown fields are ignored. A schedule, when present,
// replaces the default schedule as a whole.
func ConfigFromJSON(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	defaultSchedule := cfg.Schedule
	// encoding/json reuses existing slice elements, so an entry that omits a
	// field would inherit it from the default ship at the same index.
	cfg.Schedule = nil
	if err := json.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding JSON config: %w", err)
	}
	if cfg.Schedule == nil {
		cfg.Schedule = defaultSchedule
	}
	return cfg, nil
}

// ConfigFromYAML decodes r onto DefaultConfig in strict mode: unknown keys
// are errors. An empty document yields the defaults.
func ConfigFromYAML(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding YAML config: %w", err)
	}
	return cfg, nil
}
