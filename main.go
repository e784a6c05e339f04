package main

import "github.com/rpupo63/blog-backend/cli"

func main() {
	cli.Execute()
}
