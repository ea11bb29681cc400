package main

import "github.com/kozaktomas/imgmatch/cmd"

func main() {
	cmd.Execute()
}
