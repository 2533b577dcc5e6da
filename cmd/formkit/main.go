// Command formkit builds, publishes and fills forms from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/formkit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "formkit:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
