package main

import "metricseed/cmd"

func main() {
	cmd.Execute()
}
