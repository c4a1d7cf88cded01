// Command lapdread inspects LaPD HDF5 files and reads aligned digitizer
// and control-device records from them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "lapdread",
		Short:         "Read LaPD HDF5 files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file (default: lapdread.yaml in . or ~/.config/lapdread)")
	root.PersistentFlags().String("log-level", "", "log level, overrides the config file")
	root.PersistentFlags().String("format", "", "format results, 'table' or 'json'")
	root.PersistentFlags().BoolP("quiet", "q", false, "silence status output")
	addCommands(root)
	return root
}

func main() {
	if err := newRoot().Execute(); err != nil {
		fatal("%s", err)
	}
}
