package main

import (
	"os"

	"github.com/wwwwwert/AlgorithmTesting/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout))
}
