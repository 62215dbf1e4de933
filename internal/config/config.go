// Package config loads .markcheck.toml, the project-level settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"markcheck/internal/diag"
	"markcheck/internal/engine"
	"markcheck/internal/format"
	"markcheck/internal/lint"
)

// FileName is the settings file searched for upward from the working directory.
const FileName = ".markcheck.toml"

// DefaultExtensions are the page extensions checked when walking directories.
var DefaultExtensions = []string{".html", ".htm", ".md"}

type Config struct {
	Lint   LintConfig   `toml:"lint"`
	Format FormatConfig `toml:"format"`
	Check  CheckConfig  `toml:"check"`
}

type LintConfig struct {
	Disable          []string          `toml:"disable"`
	InlineStyleLimit int               `toml:"inline_style_limit"`
	Severity         map[string]string `toml:"severity"`
}

type FormatConfig struct {
	Indent  int  `toml:"indent"`
	UseTabs bool `toml:"use_tabs"`
}

type CheckConfig struct {
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	Extensions     []string `toml:"extensions"`
}

// Loaded is a validated config together with where it came from.
type Loaded struct {
	Path   string // пусто, если файл не найден
	Root   string
	Config Config
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Lint:   LintConfig{InlineStyleLimit: lint.DefaultInlineStyleLimit},
		Format: FormatConfig{Indent: format.DefaultIndentWidth},
		Check: CheckConfig{
			MaxDiagnostics: 100,
			Extensions:     append([]string(nil), DefaultExtensions...),
		},
	}
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
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

// Discover finds and loads the nearest config, falling back to Default.
func Discover(startDir string) (*Loaded, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Loaded{Config: Default()}, nil
	}
	return Load(path)
}

// Load decodes and validates the file at path. Keys that are not set keep
// their defaults.
func Load(path string) (*Loaded, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs := path
	if resolved, absErr := filepath.Abs(path); absErr == nil {
		abs = resolved
	}
	return &Loaded{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// Validate checks rule names, severities and numeric ranges.
func (c Config) Validate() error {
	for _, id := range c.Lint.Disable {
		if _, err := diag.ParseRule(id); err != nil {
			return fmt.Errorf("[lint].disable: %w", err)
		}
	}
	for id, sev := range c.Lint.Severity {
		if _, err := diag.ParseRule(id); err != nil {
			return fmt.Errorf("[lint.severity]: %w", err)
		}
		if _, err := diag.ParseSeverity(sev); err != nil {
			return fmt.Errorf("[lint.severity].%s: %w", id, err)
		}
	}
	if c.Lint.InlineStyleLimit < 0 {
		return fmt.Errorf("[lint].inline_style_limit must be >= 0")
	}
	if c.Format.Indent < 0 || c.Format.Indent > 16 {
		return fmt.Errorf("[format].indent must be between 0 and 16")
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("[check].max_diagnostics must be >= 0")
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must be >= 0")
	}
	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("[check].extensions: %q must start with a dot", ext)
		}
	}
	return nil
}

// EngineOptions converts the config into per-call engine options. The config
// must have passed Validate.
func (c Config) EngineOptions() engine.Options {
	opts := engine.Options{
		InlineStyleLimit: c.Lint.InlineStyleLimit,
		IndentWidth:      c.Format.Indent,
		UseTabs:          c.Format.UseTabs,
		MaxDiagnostics:   c.Check.MaxDiagnostics,
	}
	for _, id := range c.Lint.Disable {
		if rule, err := diag.ParseRule(id); err == nil {
			opts.Disabled = append(opts.Disabled, rule)
		}
	}
	if len(c.Lint.Severity) > 0 {
		opts.Severity = make(map[diag.Rule]diag.Severity, len(c.Lint.Severity))
		for id, raw := range c.Lint.Severity {
			rule, err := diag.ParseRule(id)
			if err != nil {
				continue
			}
			if sev, err := diag.ParseSeverity(raw); err == nil {
				opts.Severity[rule] = sev
			}
		}
	}
	return opts
}

// HasExtension reports whether path should be checked when walking directories.
func (c Config) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Check.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault creates FileName with default settings in dir. An existing file
// is left alone unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%s already exists", path)
	}
	cfg := Default()
	cfg.Lint.Severity = map[string]string{}
	for _, info := range diag.Rules() {
		if info.ID == diag.RuleInternalError {
			continue
		}
		cfg.Lint.Severity[string(info.ID)] = info.Severity.Label()
	}
	data, err := cfg.Encode()
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// RuleIDs lists the configurable rule identifiers in sorted order.
func RuleIDs() []string {
	ids := make([]string, 0, len(diag.Rules()))
	for _, info := range diag.Rules() {
		ids = append(ids, string(info.ID))
	}
	sort.Strings(ids)
	return ids
}
