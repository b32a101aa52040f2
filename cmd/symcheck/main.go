package main

import "github.com/OpenTraceLab/symcheck/cmd/symcheck/cmd"

func main() {
	cmd.Execute()
}
