package main

import "github.com/endemicwatch/endemic-monitoring/cmd"

func main() {
	cmd.Execute()
}
