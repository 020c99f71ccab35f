// Package main is the single-binary entrypoint for the schedge client.
package main

import "github.com/schedge-app/schedge/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
