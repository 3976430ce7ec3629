// Package main is the entrypoint of the hubtrend CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/hubtrend/cmd"
	"github.com/huangsam/hubtrend/internal/logger"
	"github.com/huangsam/hubtrend/internal/store"
)

func main() {
	err := cmd.Execute()

	store.CloseStores()
	_ = logger.Sync()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
