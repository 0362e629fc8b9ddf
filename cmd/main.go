package main

import (
	"github.com/consensys/go-jlang/pkg/cmd"
)

func main() {
	cmd.Execute()
}
