package main

import "github.com/liuxd6825/k6dict/cmd"

func main() {
	cmd.Execute()
}
