package main

import (
	"os"

	"github.com/jmgilman/go/svcerr/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
