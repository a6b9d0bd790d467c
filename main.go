package main

import (
	"fmt"
	"os"

	"github.com/yumyai/blutable/cmd"
)

var VERSION = "0.1.0"

func main() {
	cmd.SetVersion(VERSION)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
