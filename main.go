package main

import "github.com/brogergvhs/mangascout/cmd"

func main() {
	cmd.Execute()
}
