package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/spf13/pflag"
)

type testApp struct {
	Name     string `koanf:"name"`
	Env      string `koanf:"env"`
	Database struct {
		DSN string `koanf:"dsn"`
	} `koanf:"database"`
	Hosts []string `koanf:"hosts"`
}

func (a testApp) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("app name is required")
	}
	return nil
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestContainerLoadFromFile(t *testing.T) {
	path := writeTemp(t, "app.json", `{"name": "TestApp", "env": "testing", "database": {"dsn": "test-dsn"}}`)

	app := &testApp{}
	container := New(app).WithProvider(FileProvider[*testApp](path))

	if err := container.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if app.Name != "TestApp" {
		t.Errorf("expected Name 'TestApp', got %q", app.Name)
	}
	if app.Env != "testing" {
		t.Errorf("expected Env 'testing', got %q", app.Env)
	}
	if app.Database.DSN != "test-dsn" {
		t.Errorf("expected Database.DSN 'test-dsn', got %q", app.Database.DSN)
	}
	if container.Raw() != app {
		t.Errorf("expected Raw to return the base pointer")
	}
}

func TestContainerProviderPrecedence(t *testing.T) {
	path := writeTemp(t, "app.yaml", "name: from-file\nenv: file\n")
	t.Setenv("CONFDOCTEST_ENV", "from-env")
	t.Setenv("CONFDOCTEST_DATABASE__DSN", "env-dsn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("name", "flag-default", "")
	fs.String("env", "flag-default", "")
	fs.StringSlice("host", nil, "")
	if err := fs.Parse([]string{"--host", "a", "--host", "b"}); err != nil {
		t.Fatal(err)
	}

	app := &testApp{}
	container := New(app).WithProvider(
		FlagsProvider[*testApp](fs, map[string]string{"host": "hosts"}),
		EnvProvider[*testApp]("CONFDOCTEST_", "__"),
		FileProvider[*testApp](path),
		DefaultValuesProvider[*testApp](map[string]any{"name": "default", "env": "default"}),
	)

	if err := container.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Unchanged flags do not override keys set earlier.
	if app.Name != "from-file" {
		t.Errorf("expected Name from file, got %q", app.Name)
	}
	if app.Env != "from-env" {
		t.Errorf("expected Env from environment, got %q", app.Env)
	}
	if app.Database.DSN != "env-dsn" {
		t.Errorf("expected nested env key, got %q", app.Database.DSN)
	}
	if len(app.Hosts) != 2 || app.Hosts[0] != "a" || app.Hosts[1] != "b" {
		t.Errorf("expected aliased flag hosts [a b], got %v", app.Hosts)
	}
}

func TestContainerValidation(t *testing.T) {
	app := &testApp{}
	container := New(app).WithProvider(DefaultValuesProvider[*testApp](map[string]any{"env": "x"}))

	err := container.Load(context.Background())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.IsValidation(err) {
		t.Errorf("expected validation category, got %v", err)
	}

	app = &testApp{}
	container = New(app).
		WithValidation(false).
		WithProvider(DefaultValuesProvider[*testApp](map[string]any{"env": "x"}))
	if err := container.Load(context.Background()); err != nil {
		t.Fatalf("expected no error with validation disabled, got %v", err)
	}
}

func TestContainerMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")

	container := New(&testApp{Name: "base"}).WithProvider(FileProvider[*testApp](missing))
	if err := container.Load(context.Background()); err == nil {
		t.Fatal("expected missing file to fail")
	}

	container = New(&testApp{Name: "base"}).WithProvider(OptionalProvider(FileProvider[*testApp](missing)))
	if err := container.Load(context.Background()); err != nil {
		t.Fatalf("expected optional provider to ignore missing file, got %v", err)
	}
}

func TestContainerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	container := New(&testApp{Name: "base"}).
		WithProvider(DefaultValuesProvider[*testApp](map[string]any{"env": "x"}))
	err := container.Load(ctx)
	if err == nil {
		t.Fatal("expected cancelled load to fail")
	}

	var rich *errors.Error
	if !errors.As(err, &rich) || rich.TextCode != "CONFIG_LOAD_CANCELLED" {
		t.Errorf("expected CONFIG_LOAD_CANCELLED, got %v", err)
	}
}

type solverPassConfig struct {
	Foo   string `koanf:"foo"`
	Value string `koanf:"value"`
}

func (c solverPassConfig) Validate() error { return nil }

func TestContainerSolverPasses(t *testing.T) {
	defaultValues := map[string]any{
		"foo":   "bar",
		"value": `{{ "$" + "{foo}" }}`,
	}

	tests := []struct {
		passes int
		want   string
	}{
		{1, "${foo}"},
		{2, "bar"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("passes=%d", tt.passes), func(t *testing.T) {
			cfg := &solverPassConfig{}
			container := New(cfg).
				WithProvider(DefaultValuesProvider[*solverPassConfig](defaultValues)).
				WithSolverPasses(tt.passes)

			if err := container.Load(context.Background()); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Value != tt.want {
				t.Errorf("expected %q, got %q", tt.want, cfg.Value)
			}
		})
	}
}

func TestContainerStringTransformers(t *testing.T) {
	app := &testApp{}
	container := New(app).
		WithStringTransformers(TrimSpace).
		WithKeyedStringTransformers("database.dsn", func(s string) (string, error) {
			return "dsn:" + s, nil
		}).
		WithProvider(DefaultValuesProvider[*testApp](map[string]any{
			"name":     "  padded  ",
			"database": map[string]any{"dsn": " x "},
			"hosts":    []any{" a ", "b "},
		}))

	if err := container.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if app.Name != "padded" {
		t.Errorf("expected trimmed name, got %q", app.Name)
	}
	if app.Database.DSN != "dsn:x" {
		t.Errorf("expected keyed transformer after trim, got %q", app.Database.DSN)
	}
	if len(app.Hosts) != 2 || app.Hosts[0] != "a" || app.Hosts[1] != "b" {
		t.Errorf("expected trimmed hosts, got %q", app.Hosts)
	}
}

func TestContainerStringTransformerFailure(t *testing.T) {
	container := New(&testApp{}).
		WithStringTransformers(func(string) (string, error) { panic("boom") }).
		WithProvider(DefaultValuesProvider[*testApp](map[string]any{"name": "x"}))

	err := container.Load(context.Background())
	if err == nil {
		t.Fatal("expected transformer panic to surface as an error")
	}
	var rich *errors.Error
	if !errors.As(err, &rich) || rich.TextCode != "TRANSFORM_FAILED" {
		t.Errorf("expected TRANSFORM_FAILED, got %v", err)
	}
}
