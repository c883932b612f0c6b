package main

import (
	"fmt"
	"os"

	"github.com/kobzarvs/qemacs/internal/app"
	"github.com/kobzarvs/qemacs/internal/logger"
)

func main() {
	args := os.Args[1:]
	debug := false
	if len(args) > 0 && args[0] == "--debug" {
		debug = true
		args = args[1:]
	}
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if err := logger.Init(debug); err != nil {
		fmt.Fprintln(os.Stderr, "qemacs: logging disabled:", err)
	}
	defer logger.Close()

	if err := app.New(args).Run(); err != nil {
		logger.Error("exit", "err", err)
		fmt.Fprintln(os.Stderr, "qemacs:", err)
		os.Exit(1)
	}
}
