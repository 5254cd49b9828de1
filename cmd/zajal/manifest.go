package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const noZajalTomlMessage = "no zajal.toml found\nplease specify the sketch explicitly, e.g.:\n  zajal run path/to/sketch.zj"

type sketchManifest struct {
	Path   string
	Root   string
	Config sketchConfig
}

type sketchConfig struct {
	Sketch sketchSection `toml:"sketch"`
}

type sketchSection struct {
	Name     string `toml:"name"`
	Main     string `toml:"main"`
	Snapshot string `toml:"snapshot"`
	FPS      int    `toml:"fps"`
}

// findZajalToml walks up from startDir looking for a zajal.toml.
func findZajalToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "zajal.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// loadManifest parses the manifest and resolves the main sketch path
// relative to the manifest's directory.
func loadManifest(path string) (*sketchManifest, error) {
	var cfg sketchConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Sketch.Main == "" {
		return nil, fmt.Errorf("%s: [sketch] main is not set", path)
	}
	root := filepath.Dir(path)
	return &sketchManifest{
		Path:   path,
		Root:   root,
		Config: cfg,
	}, nil
}

// resolveSketch picks the sketch file: an explicit argument wins, otherwise
// the nearest manifest decides. fps is the manifest default, zero when the
// manifest is silent (flags override it either way).
func resolveSketch(args []string) (sketch string, snapshot string, fps int, err error) {
	if len(args) == 1 {
		return args[0], "", 0, nil
	}
	manifestPath, found, err := findZajalToml(".")
	if err != nil {
		return "", "", 0, err
	}
	if !found {
		return "", "", 0, errors.New(noZajalTomlMessage)
	}
	m, err := loadManifest(manifestPath)
	if err != nil {
		return "", "", 0, err
	}
	sketch = filepath.Join(m.Root, m.Config.Sketch.Main)
	if m.Config.Sketch.Snapshot != "" {
		snapshot = filepath.Join(m.Root, m.Config.Sketch.Snapshot)
	}
	return sketch, snapshot, m.Config.Sketch.FPS, nil
}
