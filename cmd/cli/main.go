package main

import "shohorbari/cmd/cli/command"

func main() {
	command.Execute()
}
