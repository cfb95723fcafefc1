package main

import "github.com/theirongolddev/pvmdash/cmd"

func main() {
	cmd.Execute()
}
