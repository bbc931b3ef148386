package main

import (
	"os"

	"dicomsar/cli"
)

func main() {
	os.Exit(cli.Start())
}
