package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra/doc"

	"github.com/pola/git-parameter-plugin/cmd/git-parameter/commands"
)

const defaultDocsDir = "./docs/commands"

func main() {
	dir := defaultDocsDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal(err)
	}
	if err := doc.GenMarkdownTree(commands.NewCommand(), dir); err != nil {
		log.Fatal(err)
	}
	log.Infof("command reference written to %s", dir)
}
