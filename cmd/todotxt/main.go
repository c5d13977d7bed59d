package main

import (
	"os"

	"todotxt/cmd/todotxt/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:], os.Stdout, os.Stderr, &cmd.Config{Stdin: os.Stdin}))
}
