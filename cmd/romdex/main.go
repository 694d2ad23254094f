package main

import "romdex/internal/cli"

func main() {
	cli.Execute()
}
