package main

import "github.com/felixgeelhaar/vocab/cmd/vocab/cli"

func main() {
	cli.Execute()
}
