package main

import "github.com/MrSnakeDoc/bookshelf/internal/cli"

func main() {
	cli.Execute()
}
