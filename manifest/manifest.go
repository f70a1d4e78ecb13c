// Package manifest handles knight.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a knight.toml project configuration.
type Manifest struct {
	Project     Project     `toml:"project"`
	Run         Run         `toml:"run"`
	Server      Server      `toml:"server"`
	Interpreter Interpreter `toml:"interpreter"`

	// Dir is the directory containing the knight.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name string `toml:"name"`
}

// Run configures the script `knight` executes when given no file argument.
type Run struct {
	Entry string `toml:"entry"`
}

// Server configures the HTTP eval endpoint and LSP started by --serve.
type Server struct {
	HTTPAddr string `toml:"http_addr"`
	LSP      bool   `toml:"lsp"`
}

// Interpreter configures core interpreter tuning knobs.
type Interpreter struct {
	EmbedBudget int    `toml:"embed_budget"`
	RngSeed     uint64 `toml:"rng_seed"`
}

// Load parses a knight.toml file from the given directory and validates it
// against the embedded CUE schema before returning it.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "knight.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Run.Entry == "" {
		m.Run.Entry = "main.kn"
	}
	if m.Server.HTTPAddr == "" {
		m.Server.HTTPAddr = ":4567"
	}
	if m.Interpreter.EmbedBudget == 0 {
		m.Interpreter.EmbedBudget = 23
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a knight.toml file, then loads
// and returns the manifest. Returns nil, nil if no manifest is found anywhere
// up to the filesystem root.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "knight.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// EntryPath returns the absolute path of the configured entry script.
func (m *Manifest) EntryPath() string {
	return filepath.Join(m.Dir, m.Run.Entry)
}
