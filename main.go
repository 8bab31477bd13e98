package main

import "github.com/Norgate-AV/openit/cmd"

func main() {
	cmd.Execute()
}
