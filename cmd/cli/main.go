package main

import "github.com/perf-calltree/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
