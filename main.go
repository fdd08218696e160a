package main

import "github.com/mj1618/i3layout/cmd"

func main() {
	cmd.Execute()
}
