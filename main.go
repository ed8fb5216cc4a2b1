package main

import "github.com/relloyd/dpu/cmd"

func main() {
	cmd.Execute()
}
