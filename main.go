package main

import (
	"github.com/xkilldash9x/findingsd/cmd"
)

func main() {
	cmd.Execute()
}
