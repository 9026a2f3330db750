// Command profview hosts the profile table overlay in a terminal program.
//
// The overlay lists live tables for frame timings, Go runtime statistics,
// pprof capture state, recent log entries, and any pprof files passed with
// --pprof. Press f11 to show it, the arrow keys to navigate, enter to open a
// row, and shift+f11 to append a dump of every table to the dump file.
//
// # Usage
//
//	profview [flags]
//	profview dump [-o FILE]
//	profview snapshot -o FILE.png [--width PX] [--height PX]
//	profview keymap-schema
//	profview version
//
// When stdout is not a terminal, profview writes a dump to stdout instead of
// starting the interactive program.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
