// Package main is the entry point for the chessreport CLI, which builds a
// descriptive report over a dataset of online chess games.
package main

import "github.com/pable/go-chess-report/cmd"

func main() {
	cmd.Execute()
}
