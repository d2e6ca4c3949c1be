package main

import "github.com/Nakamo312/BugBountyMCP-sub001/internal/cli"

// version can be set during build with -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
