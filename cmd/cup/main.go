// Command cup is the CUP CLI: snapshot, search, and act on the
// accessibility tree of the foreground window, the desktop, or every open
// window, from one terminal command.
package main

import (
	"fmt"
	"os"

	"github.com/cup-project/cup/cmd/cup/commands"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	rootCmd := commands.NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cup: %v\n", err)
		os.Exit(1)
	}
}
