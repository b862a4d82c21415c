package main

import "github.com/rvail/filechat-go/cmd/filechat/cmd"

func main() {
	cmd.Execute()
}
