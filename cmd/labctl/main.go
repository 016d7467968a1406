package main

import (
	"os"

	"github.com/codr1/labplanner/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		cli.PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
