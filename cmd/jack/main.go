package main

import (
	"os"

	"github.com/tangzhangming/jack/cmd/jack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
