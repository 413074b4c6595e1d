package main

import (
	"fmt"
	"os"

	"github.com/marquinacarlos/portablogio-backend/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
