package main

import "planline/cmd"

func main() {
	cmd.Execute()
}
