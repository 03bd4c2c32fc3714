package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	cli "github.com/pola/git-parameter-plugin/cmd/git-parameter/commands"
	"github.com/pola/git-parameter-plugin/common"
)

func main() {
	var command *cobra.Command

	binaryName := filepath.Base(os.Args[0])
	if val := os.Getenv(common.EnvBinaryName); val != "" {
		binaryName = val
	}
	switch binaryName {
	case "git-parameter-server":
		command = cli.NewServerCommand()
	default:
		command = cli.NewCommand()
	}

	if err := command.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
