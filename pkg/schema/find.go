// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"os"
	"path/filepath"
)

// EnvVar names the environment variable that points at a schema file.
const EnvVar = "ARGMATCH_SCHEMA"

// FileNames are the schema names Find looks for, in order.
var FileNames = []string{"argmatch.toml", "argmatch.yaml", "argmatch.yml"}

// Find walks up from startDir and returns the first schema file found. It
// returns an error wrapping os.ErrNotExist when there is none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// Locate resolves the schema path: explicit if set, else $ARGMATCH_SCHEMA,
// else the nearest schema file above the working directory.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return Find(cwd)
}
