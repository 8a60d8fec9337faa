package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up by FindManifest.
const ManifestName = "easel.toml"

// ErrNoManifest is returned by Load when no manifest exists above startDir.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

// Manifest is a decoded easel.toml together with where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest layout:
//
//	[script]
//	file = "main.eel"
//	sections = ["@init", "@block"]
//
//	[run]
//	sections = ["@init"]
//	repeat = 1
//
//	[vars]
//	gain = 0.5
type Config struct {
	Script ScriptConfig       `toml:"script"`
	Run    RunConfig          `toml:"run"`
	Vars   map[string]float64 `toml:"vars"`
}

type ScriptConfig struct {
	File     string   `toml:"file"`
	Sections []string `toml:"sections"`
}

type RunConfig struct {
	Sections []string `toml:"sections"`
	Repeat   int      `toml:"repeat"`
}

// FindManifest walks up from startDir to locate easel.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
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

// Load finds and decodes the manifest governing startDir.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("script") {
		return Config{}, fmt.Errorf("%s: missing [script]", path)
	}
	if !meta.IsDefined("script", "file") || strings.TrimSpace(cfg.Script.File) == "" {
		return Config{}, fmt.Errorf("%s: missing [script].file", path)
	}
	if !meta.IsDefined("script", "sections") || len(cfg.Script.Sections) == 0 {
		return Config{}, fmt.Errorf("%s: missing [script].sections", path)
	}
	for _, s := range cfg.Script.Sections {
		if !strings.HasPrefix(s, "@") || len(s) == 1 {
			return Config{}, fmt.Errorf("%s: section %q must start with '@'", path, s)
		}
	}
	declared := make(map[string]bool, len(cfg.Script.Sections))
	for _, s := range cfg.Script.Sections {
		declared[s] = true
	}
	for _, s := range cfg.Run.Sections {
		if !declared[s] {
			return Config{}, fmt.Errorf("%s: [run].sections names undeclared section %q", path, s)
		}
	}
	if cfg.Run.Repeat < 0 {
		return Config{}, fmt.Errorf("%s: [run].repeat must not be negative", path)
	}
	return cfg, nil
}

// ScriptPath resolves [script].file against the manifest directory.
func (m *Manifest) ScriptPath() string {
	file := filepath.FromSlash(strings.TrimSpace(m.Config.Script.File))
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(m.Root, file)
}

// DefaultManifest returns the manifest written by "easel init".
func DefaultManifest(script string, sections []string) string {
	quoted := make([]string, len(sections))
	for i, s := range sections {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`# easel script manifest
[script]
file = %q
sections = [%s]

[run]
sections = [%s]
repeat = 1
`, script, strings.Join(quoted, ", "), strings.Join(quoted, ", "))
}

// DefaultScript returns a starter script using the given sections.
func DefaultScript(sections []string) string {
	var sb strings.Builder
	for i, s := range sections {
		if i == 0 {
			fmt.Fprintf(&sb, "%s\n// runs once\ncount = 0;\nprintf(\"hello from %s\\n\");\n\n", s, s)
			continue
		}
		fmt.Fprintf(&sb, "%s\ncount += 1;\n\n", s)
	}
	return sb.String()
}
