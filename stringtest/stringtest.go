// Package stringtest builds expected strings for table-driven tests.
package stringtest

import (
	"strings"
)

// Input strips the indentation shared by every non-blank line of s, so raw
// string literals can be indented along with the surrounding test code.
//
// One leading and one trailing newline are removed, and lines holding only
// whitespace become empty.
//
// Example:
//
//	doc := stringtest.Input(`
//		toggle: [f12]
//		expand: [enter, l]
//	`) // -> "toggle: [f12]\nexpand: [enter, l]\n"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")
	indent := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	if indent <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if line != "" {
			lines[i] = line[indent:]
		}
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins lines with LF line endings.
//
//	want := stringtest.JoinLF(
//		"T (t)",
//		"Name   Time",
//	) // -> "T (t)\nName   Time"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}
