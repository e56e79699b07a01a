package main

import "github.com/dfw-fab/fabsync/internal/cli"

func main() {
	cli.Execute()
}
