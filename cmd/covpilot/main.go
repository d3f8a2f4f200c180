package main

import "github.com/covpilot/covpilot/internal/cli"

func main() {
	cli.Execute()
}
