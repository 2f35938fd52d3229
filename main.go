// Command tasks is an ordered to-do list kept in SQLite and synced
// bidirectionally with Google Tasks.
package main

import (
	"fmt"
	"os"

	"github.com/jaredevans/task-manager-curses/pkg/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
