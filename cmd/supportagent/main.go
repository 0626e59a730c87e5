package main

import "github.com/supportagent/supportagent/internal/cmd"

func main() {
	cmd.Execute()
}
