package main

import "cvp-getconfig/cmd"

func main() {
	cmd.Execute()
}
