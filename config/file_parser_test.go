package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

func TestInferFileType(t *testing.T) {
	tests := []struct {
		path     string
		expected ConfigFileType
	}{
		{".confdoc.json", FileTypeJSON},
		{".confdoc.yaml", FileTypeYAML},
		{"ext/cache.YML", FileTypeYAML},
		{"ext/cache.toml", FileTypeTOML},
		// unknown extension falls back to JSON unless a default is provided
		{"settings.unknown", FileTypeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := InferFileType(tt.path); got != tt.expected {
				t.Errorf("InferFileType(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}

	if got := InferFileType("settings", FileTypeTOML); got != FileTypeTOML {
		t.Errorf("expected explicit default to win, got %v", got)
	}
}

func TestConfigFileTypeValid(t *testing.T) {
	for _, ft := range []ConfigFileType{FileTypeJSON, FileTypeYAML, FileTypeTOML} {
		if err := ft.Valid(); err != nil {
			t.Errorf("%s: unexpected error %v", ft, err)
		}
	}
	if err := ConfigFileType("ini").Valid(); err == nil {
		t.Fatal("expected ini to be rejected")
	}
}

func TestParserForConfigFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"settings.json": `{"output_dir": "json-out"}`,
		"settings.yaml": "output_dir: yaml-out\n",
		"settings.toml": "output_dir = \"toml-out\"\n",
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		k := koanf.New(".")
		if err := k.Load(file.Provider(path), InferFileType(path).Parser()); err != nil {
			t.Fatalf("%s: load failed: %v", name, err)
		}
		if got := k.String("output_dir"); got == "" {
			t.Errorf("%s: expected output_dir to be parsed", name)
		}
	}
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()

	if _, ok := FindFile(dir, SettingsFileBase); ok {
		t.Fatal("expected no settings file in an empty directory")
	}

	// A directory with a matching name is not a file.
	if err := os.Mkdir(filepath.Join(dir, ".confdoc.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{".confdoc.json", ".confdoc.toml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, ok := FindFile(dir, SettingsFileBase)
	if !ok {
		t.Fatal("expected a settings file to be found")
	}
	if want := filepath.Join(dir, ".confdoc.json"); got != want {
		t.Errorf("FindFile = %q, want %q", got, want)
	}
}
