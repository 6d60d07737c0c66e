package main

import (
	"context"
	"os"

	"blogfront/service"
)

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the command line with the process arguments.
func RealMain() {
	exit(service.Execute(context.Background(), os.Args[1:]))
}
