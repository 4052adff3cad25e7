package main

import (
	"fmt"

	"github.com/zeu5/nim-rl/commands"
)

// main entry point to training, comparisons and interactive play
func main() {
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
