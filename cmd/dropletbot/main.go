package main

import "dropletbot/internal/cli/cmd"

func main() {
	cmd.Execute()
}
