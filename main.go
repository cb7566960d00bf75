package main

import "github.com/tranvictor/ensgraph/cmd"

func main() {
	cmd.Execute()
}
