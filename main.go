package main

import "github.com/dt-pm-tools/ticket2task/cmd"

func main() {
	cmd.Execute()
}
