package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-confdoc/config"
	"github.com/goliatone/go-confdoc/discovery"
	"github.com/goliatone/go-confdoc/extension"
	"github.com/goliatone/go-confdoc/flagmap"
	"github.com/goliatone/go-confdoc/logger"
	"github.com/goliatone/go-confdoc/registry"
)

// app is the state shared by every command once discovery has run.
type app struct {
	settings *config.Settings
	logger   *logger.ZapLogger
	checkout discovery.Checkout
	pkg      string
	registry *registry.Registry
}

// prepare loads settings, validates the checkout, scans its sources and
// builds the registry, including extension options.
func prepare(cmd *cobra.Command, builtins *extension.Set) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadSettings(ctx, cmd.Flags(), configPath, nil)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewZapLogger("confdoc", settings.Verbose)
	if err != nil {
		return nil, err
	}

	checkout, err := discovery.CheckCheckout(settings.Repo)
	if err != nil {
		return nil, err
	}
	pkg := settings.Package
	if pkg == "" {
		pkg = checkout.Package
	}

	res, err := discovery.NewScanner(checkout.Root).
		WithExcludes(settings.ExcludeDirs...).
		WithLogger(log).
		WithVerbosity(settings.Verbose).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	reg := registry.New().WithLogger(log).WithVerbosity(settings.Verbose)
	reg.Populate(res.Source)

	finder := extensionFinder(settings, builtins)
	for _, id := range settings.Extensions {
		if _, err := reg.LoadExtensions(id, finder); err != nil {
			return nil, err
		}
	}

	log.Debug("Discovered %d options in %d packages of %s", reg.Len(), len(res.Packages), checkout.ModulePath)
	return &app{
		settings: settings,
		logger:   log,
		checkout: checkout,
		pkg:      pkg,
		registry: reg,
	}, nil
}

func extensionFinder(settings *config.Settings, builtins *extension.Set) extension.Finder {
	finders := []extension.Finder{}
	if builtins != nil {
		finders = append(finders, builtins)
	}
	if settings.ExtensionsDir != "" {
		finders = append(finders, extension.Dir{Path: settings.ExtensionsDir})
	}
	return extension.Chain(finders...)
}

func (a *app) storePath() string {
	return flagmap.Path(a.settings.FlagmappingsDir, a.pkg)
}

func (a *app) pendingPath() string {
	return flagmap.PendingPath(a.settings.FlagmappingsDir, a.pkg)
}

func (a *app) close() {
	a.logger.Sync()
}
