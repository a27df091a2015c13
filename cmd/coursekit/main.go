package main

import "github.com/conecourse/editor/cmd/coursekit/cmd"

func main() {
	cmd.Execute()
}
