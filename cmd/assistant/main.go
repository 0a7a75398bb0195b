package main

import "influencerag/internal/cli"

func main() {
	cli.Execute()
}
