package main

import "github.com/ygelfand/vidctl/cmd"

func main() {
	cmd.Execute()
}
