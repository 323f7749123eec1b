package main

import (
	"github.com/foomo/cdf/cmd"
)

func main() {
	cmd.Execute()
}
