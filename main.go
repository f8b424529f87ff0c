package main

import "github.com/encodeous/meshstat/cmd"

func main() {
	cmd.Execute()
}
