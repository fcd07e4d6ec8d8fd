package main

import "github.com/vietddude/orglens/internal/cli"

func main() {
	cli.Execute()
}
