package main

import "github.com/notargets/octant/cmd"

func main() {
	cmd.Execute()
}
