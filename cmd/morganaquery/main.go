package main

import (
	"os"

	morganaquery "github.com/morgana/queryengine/cmd/morganaquery/internal"
)

func main() {
	if err := morganaquery.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
