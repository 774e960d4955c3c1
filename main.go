package main

import "dagsched/cmd"

func main() {
	cmd.Execute()
}
