package main

import "github.com/edunote/edunote/internal/cli"

func main() {
	cli.Execute()
}
