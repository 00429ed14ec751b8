// Command goldensun drives the ray-tracing engine headlessly on the software backend and prints
// the gpu system's allocator statistics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "goldensun",
		Short:         "Headless driver for the GoldenSun ray-tracing engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "engine config file (.toml, .yaml or .yml)")

	root.AddCommand(newRenderCommand())
	root.AddCommand(newConfigCommand())
	return root
}
