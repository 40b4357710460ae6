package main

import "github.com/mvp-joe/codeshape/internal/cli"

func main() {
	cli.Execute()
}
