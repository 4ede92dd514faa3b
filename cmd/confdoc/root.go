package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-confdoc/config"
	"github.com/goliatone/go-confdoc/extension"
)

// builtinExtensions holds extensions compiled into the binary. Declarative
// ones are read from --extensions-dir.
var builtinExtensions = extension.NewSet()

func newRootCmd(builtins *extension.Set) *cobra.Command {
	root := &cobra.Command{
		Use:           "confdoc",
		Short:         "Maintain flag categories and generate configuration reference tables",
		Long:          "confdoc discovers the options a Go project registers, reconciles them against a curated <package>.flagmappings file and renders one table per category.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "settings file (default .confdoc.{yaml,yml,json,toml} in the working directory)")
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newCreateCmd(builtins),
		newUpdateCmd(builtins),
		newRenderCmd(builtins, "render", ""),
		newRenderCmd(builtins, "docbook", "docbook"),
		newRenderCmd(builtins, "markdown", "markdown"),
		newDumpCmd(builtins),
		newVersionCmd(),
	)
	return root
}
