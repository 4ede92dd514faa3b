package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-confdoc/extension"
	"github.com/goliatone/go-confdoc/flagmap"
	"github.com/goliatone/go-confdoc/reconcile"
	"github.com/goliatone/go-confdoc/render"
)

func newCreateCmd(builtins *extension.Set) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Write <package>.flagmappings with every option set to Unknown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := prepare(cmd, builtins)
			if err != nil {
				return err
			}
			defer a.close()

			names := a.registry.Names()
			path := a.storePath()
			if err := flagmap.Bootstrap(path, names); err != nil {
				return err
			}
			a.logger.Info("Wrote %d flags to %s", len(names), path)
			return nil
		},
	}
}

func newUpdateCmd(builtins *extension.Set) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Reconcile <package>.flagmappings into <package>.flagmappings.new",
		Long: "update keeps the category of every option whose curated mapping is unambiguous, " +
			"maps new options to Unknown and drops options that no longer exist. " +
			"The curated file is never modified.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := prepare(cmd, builtins)
			if err != nil {
				return err
			}
			defer a.close()

			in, out := a.storePath(), a.pendingPath()
			res, err := reconcile.Update(a.registry.Names(), in, out, a.logger)
			if err != nil {
				return err
			}

			a.logger.Info("Added %d flags, removed %d, %d left Unknown", len(res.Added), len(res.Removed), len(res.Unknown()))
			if err := res.Report(cmd.OutOrStdout()); err != nil {
				return err
			}

			if !showDiff {
				return nil
			}
			var curated []flagmap.Entry
			if store, err := flagmap.Read(in); err == nil {
				curated = store.Entries()
			}
			diff, err := reconcile.UnifiedDiff(curated, res.Entries, in, out)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), diff)
			return err
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff between the curated and the reconciled file")
	return cmd
}

// newRenderCmd builds "render" when format is empty, or a shortcut command
// bound to one format.
func newRenderCmd(builtins *extension.Set, use string, format render.Format) *cobra.Command {
	short := "Render one table per category from <package>.flagmappings"
	if format != "" {
		short = fmt.Sprintf("Render %s tables (same as render --format %s)", format, format)
	}

	var formatFlag string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := prepare(cmd, builtins)
			if err != nil {
				return err
			}
			defer a.close()

			f := format
			if f == "" {
				f = a.settings.Format
				if formatFlag != "" {
					if f, err = render.ParseFormat(formatFlag); err != nil {
						return err
					}
				}
			}

			store, err := flagmap.Read(a.storePath())
			if err != nil {
				return fmt.Errorf("cannot render without %s: %w", a.storePath(), err)
			}

			sanitizer := render.NewSanitizer(a.checkout.Root, a.settings.Placeholder, a.settings.InstallRoots)
			paths, err := render.New(f, sanitizer).
				WithLogger(a.logger).
				Store(a.settings.OutputDir, a.pkg, store, a.registry)
			if err != nil {
				return err
			}
			a.logger.Info("Wrote %d %s tables to %s", len(paths), f, a.settings.OutputDir)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	if format == "" {
		cmd.Flags().StringVar(&formatFlag, "format", "", "table format: docbook or markdown (default from settings)")
	}
	return cmd
}

func newDumpCmd(builtins *extension.Set) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "List every discovered option in canonical order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := prepare(cmd, builtins)
			if err != nil {
				return err
			}
			defer a.close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGROUP\tTYPE\tDEFAULT\tHELP")
			for _, name := range a.registry.Names() {
				group, opt, err := a.registry.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, group, opt.Type, opt.Default, render.Help(opt.Help))
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the confdoc version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "confdoc %s\n", version)
			return err
		},
	}
}
