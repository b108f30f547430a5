// Package paramsource discovers and loads the optional ppv parameter file.
package paramsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/daviddao/poisson_viewer/internal/process"
)

const (
	EnvVar      = "PPV_PARAMS"
	defaultDir  = ".ppv"
	defaultFile = ".ppv/params.yaml"
)

// ErrNotFound is returned by Discover when no parameter file exists.
var ErrNotFound = errors.New("no parameter file found")

// fileParams mirrors process.Params with optional fields so absent keys keep
// their base values.
type fileParams struct {
	Rate      *float64 `yaml:"rate"`
	Horizon   *float64 `yaml:"horizon"`
	MaxEvents *int     `yaml:"max_events"`
	Seed      *uint64  `yaml:"seed"`
}

// Discover finds the parameter file path.
// Priority: PPV_PARAMS env var > .ppv/params.yaml in CWD > walk up parents.
func Discover() (string, error) {
	if env := os.Getenv(EnvVar); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
		return "", fmt.Errorf("%s=%q: %w", EnvVar, env, os.ErrNotExist)
	}

	// Check CWD first.
	if _, err := os.Stat(defaultFile); err == nil {
		abs, err := filepath.Abs(defaultFile)
		if err != nil {
			return "", fmt.Errorf("resolve absolute path for %s: %w", defaultFile, err)
		}
		return abs, nil
	}

	// Walk up parent directories.
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, defaultFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w (looked for %s)", ErrNotFound, defaultFile)
}

// Load reads path and overlays its values on base. The result is validated.
func Load(path string, base process.Params) (process.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read %s: %w", path, err)
	}
	p, err := Parse(data, base)
	if err != nil {
		return base, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes YAML parameter data on top of base. Unknown keys are rejected
// so typos do not silently fall back to defaults.
func Parse(data []byte, base process.Params) (process.Params, error) {
	var fp fileParams
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fp); err != nil && !errors.Is(err, io.EOF) {
		return base, err
	}

	p := base
	if fp.Rate != nil {
		p.Rate = *fp.Rate
	}
	if fp.Horizon != nil {
		p.Horizon = *fp.Horizon
	}
	if fp.MaxEvents != nil {
		p.MaxEvents = *fp.MaxEvents
	}
	if fp.Seed != nil {
		p.Seed = *fp.Seed
	}
	if err := p.Validate(); err != nil {
		return base, err
	}
	return p, nil
}

// Open loads the parameter file at path, or the discovered one when path is
// empty, and returns the path it read. Finding no file is not an error: base
// comes back unchanged with an empty path.
func Open(path string, base process.Params) (process.Params, string, error) {
	if path == "" {
		found, err := Discover()
		switch {
		case errors.Is(err, ErrNotFound):
			return base, "", nil
		case err != nil:
			return base, "", err
		}
		path = found
	}
	p, err := Load(path, base)
	if err != nil {
		return base, "", err
	}
	return p, path, nil
}
