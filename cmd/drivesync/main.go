package main

import (
	"fmt"
	"os"

	"github.com/adampresley/driveportfolio/cmd/drivesync/cli"
)

var (
	Version string = "development"
)

func main() {
	root := cli.NewRootCommand(Version)
	root.AddCommand(cli.NewSyncCommand())

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
