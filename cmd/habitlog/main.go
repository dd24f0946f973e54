// Package main provides the habitlog CLI.
package main

import "github.com/mesh-intelligence/habitlog/internal/cli"

func main() {
	cli.Execute()
}
