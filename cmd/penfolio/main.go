package main

import "github.com/penfolio/penfolio-cli/internal/cmd"

func main() {
	cmd.Execute()
}
