package main

import "github.com/timvw/plotkeep/cmd"

func main() {
	cmd.Execute()
}
