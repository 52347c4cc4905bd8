package main

import "zender/cmd"

func main() {
	cmd.Execute()
}
