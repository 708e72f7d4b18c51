package main

import "github.com/timvw/workmux/cmd"

func main() {
	cmd.Execute()
}
