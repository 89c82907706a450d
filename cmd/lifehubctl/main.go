package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lifehubapp/lifehub/cmd/lifehubctl/cmd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "lifehubctl crashed: %v\n", r)
			if os.Getenv("LIFEHUB_DEBUG") != "" {
				debug.PrintStack()
			}
			os.Exit(2)
		}
	}()

	cmd.Execute()
}
