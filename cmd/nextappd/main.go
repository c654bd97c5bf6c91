package main

import "github.com/nextapp/nextappd/cmd/nextappd/commands"

func main() {
	commands.Execute()
}
