package main

import "github.com/quickdim/quickdim/cmd"

func main() {
	cmd.Execute()
}
