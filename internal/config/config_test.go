package config

import (
	"os"
	"path/filepath"
	"testing"

	"markcheck/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
[lint]
disable = ["inline-styles-performance"]
inline_style_limit = 8

[lint.severity]
img-alt-required = "error"

[format]
indent = 4

[check]
jobs = 2
extensions = [".html"]
`)
	nested := filepath.Join(root, "site", "pages")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	loaded, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if loaded.Root != root {
		t.Fatalf("Root = %q, want %q", loaded.Root, root)
	}
	cfg := loaded.Config
	if cfg.Lint.InlineStyleLimit != 8 || cfg.Format.Indent != 4 || cfg.Check.Jobs != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	// не заданный ключ сохраняет значение по умолчанию
	if cfg.Check.MaxDiagnostics != 100 {
		t.Fatalf("MaxDiagnostics = %d, want default 100", cfg.Check.MaxDiagnostics)
	}

	opts := cfg.EngineOptions()
	if len(opts.Disabled) != 1 || opts.Disabled[0] != diag.RuleInlineStyles {
		t.Fatalf("Disabled = %v", opts.Disabled)
	}
	if opts.Severity[diag.RuleImgAltRequired] != diag.SevError {
		t.Fatalf("severity override missing: %v", opts.Severity)
	}
	if opts.IndentWidth != 4 || opts.InlineStyleLimit != 8 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if !cfg.HasExtension("a/b.HTML") || cfg.HasExtension("a/b.md") {
		t.Fatalf("extension filter wrong")
	}
}

func TestDiscoverDefaults(t *testing.T) {
	loaded, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if loaded.Path != "" {
		// в родительских каталогах временной директории файла быть не должно
		t.Skipf("found unexpected config at %s", loaded.Path)
	}
	if loaded.Config.Format.Indent != 2 || !loaded.Config.HasExtension("x.md") {
		t.Fatalf("unexpected defaults %+v", loaded.Config)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown rule":     "[lint]\ndisable = [\"no-such-rule\"]\n",
		"unknown severity": "[lint.severity]\nunclosed-tag = \"fatal\"\n",
		"unknown key":      "[lint]\nfoo = 1\n",
		"bad extension":    "[check]\nextensions = [\"html\"]\n",
		"negative jobs":    "[check]\njobs = -1\n",
		"broken toml":      "[lint\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir, false)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Config.Lint.Severity["unclosed-tag"]; got != "warning" {
		t.Fatalf("severity for unclosed-tag = %q", got)
	}
	if _, err := WriteDefault(dir, false); err == nil {
		t.Fatalf("expected error for existing file")
	}
	if _, err := WriteDefault(dir, true); err != nil {
		t.Fatalf("force overwrite: %v", err)
	}
}
