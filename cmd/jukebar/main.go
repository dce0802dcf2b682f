package main

import "github.com/tessro/jukebar/internal/cli"

func main() {
	cli.Execute()
}
