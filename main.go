package main

import (
	"github.com/shieldscan/shieldscan/cmd"
)

func main() {
	cmd.Execute()
}
