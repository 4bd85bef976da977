package main

import "github.com/halcyonlabs/halcyon/cmd/halcyon-cli/cmd"

func main() {
	cmd.Execute()
}
