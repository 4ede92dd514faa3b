package config

import (
	"context"
	"fmt"
	"go/build"
	"os"
	"path/filepath"

	"github.com/goliatone/go-errors"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-confdoc/discovery"
	"github.com/goliatone/go-confdoc/logger"
	"github.com/goliatone/go-confdoc/render"
)

const (
	// SettingsFileBase is probed in the working directory with every
	// supported extension when no --config is given.
	SettingsFileBase = ".confdoc"

	TextCodeInvalidSettings = "INVALID_SETTINGS"
)

// Settings drive a single confdoc run.
type Settings struct {
	Repo            string        `koanf:"repo"`
	Package         string        `koanf:"package"`
	FlagmappingsDir string        `koanf:"flagmappings_dir"`
	OutputDir       string        `koanf:"output_dir"`
	Format          render.Format `koanf:"format"`
	Extensions      []string      `koanf:"extensions"`
	ExtensionsDir   string        `koanf:"extensions_dir"`
	ExcludeDirs     []string      `koanf:"exclude_dirs"`
	InstallRoots    []string      `koanf:"install_roots"`
	Placeholder     string        `koanf:"placeholder"`
	Verbose         int           `koanf:"verbose"`
}

// FlagAliases maps flag names that differ from their settings key.
var FlagAliases = map[string]string{
	"extension":    "extensions",
	"exclude-dir":  "exclude_dirs",
	"install-root": "install_roots",
}

// DefaultSettings returns the built in values.
func DefaultSettings() *Settings {
	return &Settings{
		Repo:            ".",
		FlagmappingsDir: ".",
		OutputDir:       "./generated",
		Format:          render.FormatDocBook,
		Extensions:      []string{},
		ExcludeDirs:     append([]string(nil), discovery.DefaultExcludeDirs...),
		InstallRoots:    DefaultInstallRoots(),
		Placeholder:     render.DefaultPlaceholder,
	}
}

// DefaultInstallRoots lists the toolchain and module cache locations that
// leak into defaults computed at registration time.
func DefaultInstallRoots() []string {
	var roots []string
	if build.Default.GOROOT != "" {
		roots = append(roots, build.Default.GOROOT)
	}
	if cache := os.Getenv("GOMODCACHE"); cache != "" {
		roots = append(roots, cache)
	} else if build.Default.GOPATH != "" {
		roots = append(roots, filepath.Join(build.Default.GOPATH, "pkg", "mod"))
	}
	return roots
}

func (s *Settings) Validate() error {
	var problems []string
	if s.Repo == "" {
		problems = append(problems, "repo is required")
	}
	if s.FlagmappingsDir == "" {
		problems = append(problems, "flagmappings_dir is required")
	}
	if s.OutputDir == "" {
		problems = append(problems, "output_dir is required")
	}
	if _, err := render.ParseFormat(string(s.Format)); err != nil {
		problems = append(problems, err.Error())
	}
	if s.Verbose < 0 {
		problems = append(problems, "verbose cannot be negative")
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(fmt.Sprintf("invalid settings: %v", problems), errors.CategoryValidation).
		WithTextCode(TextCodeInvalidSettings).
		WithMetadata(map[string]any{"problems": problems})
}

// BindFlags registers the settings flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	def := DefaultSettings()
	fs.String("repo", def.Repo, "Path to the git checkout to document")
	fs.String("package", "", "Package name used for file names (defaults to the module path base)")
	fs.String("flagmappings-dir", def.FlagmappingsDir, "Directory holding <package>.flagmappings")
	fs.String("output-dir", def.OutputDir, "Directory receiving generated tables")
	fs.StringSlice("extension", nil, "Extension to load options from (repeatable)")
	fs.String("extensions-dir", "", "Directory with declarative extension documents")
	fs.StringSlice("exclude-dir", def.ExcludeDirs, "Directory, relative to the repo, to skip (repeatable)")
	fs.StringSlice("install-root", def.InstallRoots, "Path prefix replaced by the placeholder in defaults (repeatable)")
	fs.String("placeholder", def.Placeholder, "Replacement for install roots in defaults")
	fs.CountP("verbose", "v", "Increase verbosity (-v, -vv)")
}

// LoadSettings merges defaults, an optional settings file, CONFDOC_*
// environment variables and flags, in increasing precedence. configPath
// names a required file; when empty a .confdoc.{yaml,yml,json,toml} in the
// working directory is used if present.
func LoadSettings(ctx context.Context, flags *pflag.FlagSet, configPath string, l logger.Logger) (*Settings, error) {
	defaults := DefaultSettings()
	container := New(defaults).
		WithLogger(l).
		WithStringTransformers(TrimSpace).
		WithKeyedStringTransformers("exclude_dirs", TrimSlashes)
	for _, key := range []string{"repo", "flagmappings_dir", "output_dir", "extensions_dir"} {
		container.WithKeyedStringTransformers(key, CleanPath)
	}

	container.WithProvider(StructProvider[*Settings](defaults))
	if configPath != "" {
		container.WithProvider(FileProvider[*Settings](configPath))
	} else if found, ok := FindFile(".", SettingsFileBase); ok {
		container.WithProvider(OptionalProvider(FileProvider[*Settings](found)))
	}
	container.WithProvider(EnvProvider[*Settings](DefaultEnvPrefix, DefaultEnvDelimiter))
	if flags != nil {
		container.WithProvider(FlagsProvider[*Settings](flags, FlagAliases))
	}

	if err := container.Load(ctx); err != nil {
		return nil, err
	}
	return container.Raw(), nil
}
