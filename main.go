package main

import "github.com/nanoreads/modsketch/modsketch/cmd"

func main() {
	cmd.Execute()
}
