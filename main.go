package main

import (
	"os"

	"github.com/SisyphusMD/wudwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
