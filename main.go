package main

import (
	cmd "github.com/bluespot/cli/cmd"
)

func main() {
	cmd.Execute()
}
