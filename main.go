// Command preshow plays a home theater preshow before the feature.
package main

import (
	"fmt"
	"os"

	"github.com/preshow-cli/preshow/cmd"
	"github.com/preshow-cli/preshow/config"
	"github.com/preshow-cli/preshow/internal/cache"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/where"
)

func main() {
	if err := config.Setup(); err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", where.Config(), err)
		os.Exit(1)
	}
	if err := log.Setup(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	go cache.New(where.URLCache(), cmd.URLCacheTTL).CollectGarbage()

	cmd.Execute()
}
