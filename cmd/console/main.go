package main

import "github.com/vietddude/console/internal/cli"

func main() {
	cli.Execute()
}
