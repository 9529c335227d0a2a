// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Config is the YAML form of Options.
//
//	src_dir: /mnt/rom/content
//	dest_dir: ./source
//	platform: cafe
//	aoc_dir: /mnt/rom/aoc/0010
//	max_workers: 8
//	message_converter: msyt export -d
//	post_processors: [actorinfo, gamedata]
type Config struct {
	Options
	// PostProcessors selects built-in stages by name, in order.
	// Omitted means all of them; an empty list disables them.
	PostProcessors []string `json:"post_processors,omitempty"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ToOptions resolves stage names and returns the options.
func (c *Config) ToOptions() (Options, error) {
	opts := c.Options
	if c.PostProcessors != nil {
		stages, err := SelectPostProcessors(c.PostProcessors)
		if err != nil {
			return Options{}, err
		}
		opts.PostProcessors = stages
	}

	if opts.Platform != "" {
		p, err := ParsePlatform(string(opts.Platform))
		if err != nil {
			return Options{}, err
		}
		opts.Platform = p
	}

	return opts, nil
}

// SelectPostProcessors returns the built-in stages named by names, in that order.
func SelectPostProcessors(names []string) ([]PostProcessor, error) {
	byName := make(map[string]PostProcessor)
	for _, stage := range DefaultPostProcessors() {
		byName[stage.Name] = stage
	}

	out := make([]PostProcessor, 0, len(names))
	for _, name := range names {
		stage, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPostProcessor, name)
		}
		out = append(out, stage)
	}

	return out, nil
}
