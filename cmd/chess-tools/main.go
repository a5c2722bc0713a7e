package main

import "github.com/pfrederiksen/chess-tools/internal/cli"

func main() {
	cli.Execute()
}
