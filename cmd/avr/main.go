package main

import "github.com/lucky0011198/AVR-GARMENT/internal/cli"

func main() {
	cli.Execute()
}
