package main

import (
	"os"

	"github.com/Rajangupta9/taskmanager/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
