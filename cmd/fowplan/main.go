package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	host, err := NewHost()
	if err != nil {
		return err
	}

	fmt.Println("fowplan: fog-of-war chess planner demo host")

	switch args := os.Args[1:]; {
	case len(args) == 0:
		return host.Start(os.Stdin, os.Stdout)
	default:
		return host.dispatch(args, os.Stdout)
	}
}
