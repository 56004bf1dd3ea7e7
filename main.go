// Package main is the entry point for the padelstats CLI tool, which ingests
// point-by-point padel match data and derives per-match statistics.
package main

import "github.com/courtside/go-padel-stats/cmd"

func main() {
	cmd.Execute()
}
