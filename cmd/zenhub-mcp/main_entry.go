//go:build !excludemain

package main

import "os"

// exitFunc is replaced in tests to cover main().
var exitFunc = os.Exit

func main() {
	exitFunc(runApp(os.Args, os.Stdout, os.Stderr))
}
