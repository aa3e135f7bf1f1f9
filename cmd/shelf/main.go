package main

import "github.com/aweris/shelf/cmd/shelf/cmd"

func main() {
	cmd.Execute()
}
