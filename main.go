package main

import "github.com/azihell/properties-dashboard/cmd"

func main() {
	cmd.Execute()
}
