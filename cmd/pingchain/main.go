package main

import "github.com/GriffinCanCode/pingchain/internal/cli"

func main() {
	cli.Execute()
}
