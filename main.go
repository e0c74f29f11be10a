package main

import "github.com/kiesman99/favi/cmd"

func main() {
	cmd.Execute()
}
