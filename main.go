// Package main is the entry point for the sbnet CLI tool, which builds pass
// and duel networks from football match events.
package main

import "github.com/pable/go-sb-networks/cmd"

func main() {
	cmd.Execute()
}
