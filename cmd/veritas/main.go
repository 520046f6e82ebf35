package main

import "github.com/RyanBlaney/sonido-veritas/cmd"

func main() {
	cmd.Execute()
}
