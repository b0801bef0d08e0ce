package main

import "github.com/funvibe/loxy/pkg/cli"

func main() {
	cli.Run()
}
