package main

import "github.com/nickelm/golemcraft-worldgen/internal/cmd"

func main() {
	cmd.Execute()
}
