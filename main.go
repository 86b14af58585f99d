package main

import "github.com/lepinkainen/cinefeed/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
