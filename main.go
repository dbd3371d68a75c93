package main

import "github.com/notargets/gofem3d/cmd"

func main() {
	cmd.Execute()
}
