package main

import "github.com/ablackcat04/software-studio-final/internal/cli"

func main() {
	cli.Execute()
}
