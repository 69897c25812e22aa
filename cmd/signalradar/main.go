package main

import (
	"signalradar/internal/cli"
)

func main() {
	cli.Execute()
}
