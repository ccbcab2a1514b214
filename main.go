package main

import "github.com/JinxSeven/Risk-360/cmd"

func main() {
	cmd.Execute()
}
