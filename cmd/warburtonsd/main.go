// Command warburtonsd runs the Warburtons OS desktop server and its
// maintenance commands.
package main

import (
	"os"

	"warburtonsos/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
