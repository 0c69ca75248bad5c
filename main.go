package main

import "github.com/mj1618/desktop-scenarios/cmd"

func main() {
	cmd.Execute()
}
