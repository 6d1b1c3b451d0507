package main

import "github.com/showtidy/showtidy/internal/cmd"

func main() {
	cmd.Execute()
}
