package main

import "github.com/user/scanpipe/cmd"

func main() {
	cmd.Execute()
}
