package main

import "github.com/KaramelBytes/milkbench-cli/cmd"

func main() {
	cmd.Execute()
}
