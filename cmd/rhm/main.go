package main

import (
	"os"

	"github.com/zenith391/rhm/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
