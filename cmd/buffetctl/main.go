package main

import (
	"context"
	"os"

	"buffet/internal/cli"

	"github.com/charmbracelet/fang"
)

var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		cli.NewRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
