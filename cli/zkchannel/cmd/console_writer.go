package cmd

import "fmt"

// Command results go through consoleWriter rather than the logger so
// tests can capture them; swap the variable to intercept output.
var consoleWriter consolePrinter = stdoutPrinter{}

type consolePrinter interface {
	Println(a ...any)
}

type stdoutPrinter struct{}

func (stdoutPrinter) Println(a ...any) {
	fmt.Println(a...)
}
