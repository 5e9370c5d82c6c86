// Package project locates and parses the reforge.toml manifest that gives
// a workspace its defaults.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a parsed reforge.toml plus its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest layout.
type Config struct {
	Package  PackageConfig  `toml:"package"`
	Interact InteractConfig `toml:"interact"`
}

// PackageConfig names the workspace.
type PackageConfig struct {
	Name string `toml:"name"`
}

// InteractConfig carries defaults for interactive sessions: which backend
// to speak and which files every compiler invocation sees.
type InteractConfig struct {
	Backend string   `toml:"backend"`
	Args    []string `toml:"args"`
}

// FindManifest walks up from startDir to locate reforge.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "reforge.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the nearest manifest. ok is false when no manifest
// exists anywhere up the tree, which is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := parseConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func parseConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

// InteractArgs resolves the manifest's default compiler arguments to
// absolute paths rooted at the manifest directory.
func (m *Manifest) InteractArgs() []string {
	out := make([]string, 0, len(m.Config.Interact.Args))
	for _, a := range m.Config.Interact.Args {
		if filepath.IsAbs(a) {
			out = append(out, a)
			continue
		}
		out = append(out, filepath.Join(m.Root, filepath.FromSlash(a)))
	}
	return out
}
