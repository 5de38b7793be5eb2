// Command menagerie serves the animal record API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// overridden at build time with -ldflags
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}
	serve := newServeCmd(opts)

	root := &cobra.Command{
		Use:           "menagerie",
		Short:         "Animal record HTTP service",
		Long:          "menagerie serves a small collection of animal records over HTTP.\nRunning it without a subcommand starts the server.",
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, newCheckCmd(opts), newVersionCmd(opts))
	return root
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(opts.stdout, "menagerie %s\n", version)
			return err
		},
	}
}
