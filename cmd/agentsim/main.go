package main

import "github.com/strrl/agentsim/internal/cmd"

func main() {
	cmd.Execute()
}
