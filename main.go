package main

import "github.com/chemsmart/fmdqa/cmd"

func main() {
	cmd.Execute()
}
