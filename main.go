package main

import (
	"fmt"
	"os"

	"github.com/oakwood-commons/cellgrid/cmd"
	"github.com/oakwood-commons/cellgrid/pkg/logger"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	logger.Close()
	if code := cmd.ExitCode(err); code != 0 {
		os.Exit(code)
	}
}
