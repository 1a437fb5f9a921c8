package main

import "github.com/blushlabs/resilience/internal/cli"

func main() {
	cli.Execute()
}
