package main

import (
	"os"

	"altd/internal/altctl"
)

func main() { os.Exit(altctl.Main()) }
