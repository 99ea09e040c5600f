package main

import (
	"os"

	"github.com/sandeepkv93/focusflow/internal/cli"
)

// Version is set at build time via -ldflags "-X main.Version=X.Y.Z"
var Version = "dev"

func main() {
	if err := cli.Execute(Version); err != nil {
		os.Exit(1)
	}
}
