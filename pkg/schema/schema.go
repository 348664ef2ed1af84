// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema describes a command line in a TOML or YAML file and
// compiles it into an argmatch registry whose values are collected
// dynamically.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Schema is one command level.
type Schema struct {
	Program         string             `toml:"program" yaml:"program"`
	About           string             `toml:"about" yaml:"about"`
	Arguments       []Param            `toml:"arguments" yaml:"arguments"`
	Options         []Param            `toml:"options" yaml:"options"`
	Commands        map[string]*Schema `toml:"commands" yaml:"commands"`
	OptionalCommand bool               `toml:"optional_command" yaml:"optional_command"`
}

// Param declares one argument or option.
type Param struct {
	Name        string   `toml:"name" yaml:"name"`
	Short       string   `toml:"short" yaml:"short"`
	Nargs       string   `toml:"nargs" yaml:"nargs"`
	Type        string   `toml:"type" yaml:"type"`
	Help        string   `toml:"help" yaml:"help"`
	Default     string   `toml:"default" yaml:"default"`
	Placeholder string   `toml:"placeholder" yaml:"placeholder"`
	Choices     []string `toml:"choices" yaml:"choices"`
}

// Format is a schema file encoding.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown schema format for %s (want .toml, .yaml or .yml)", path)
}

// Load reads and decodes the schema at path.
func Load(path string) (*Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.Program == "" {
		s.Program = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Decode decodes a schema. Unknown keys are errors.
func Decode(data []byte, format Format) (*Schema, error) {
	var s Schema
	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
	return &s, nil
}
