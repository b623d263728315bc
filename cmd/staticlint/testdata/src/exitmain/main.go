package main

import (
	"fmt"
	"os"
	sys "os"
)

func helper() {
	os.Exit(2)
}

func main() {
	fmt.Println("start")
	defer fmt.Println("deferred")
	if len(os.Args) > 1 {
		os.Exit(1) // want "direct call os.Exit is not allowed in main function"
	}
	func() {
		sys.Exit(3) // want "direct call os.Exit is not allowed in main function"
	}()
	helper()
}
