package main

import "github.com/eventloom/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
