package main

import "github.com/mcoot/triviaduel/internal/cli"

func main() {
	cli.Execute()
}
