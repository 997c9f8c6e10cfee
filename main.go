package main

import "github.com/notargets/gocadinp/cmd"

func main() {
	cmd.Execute()
}
