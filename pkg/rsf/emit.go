package rsf

import "strings"

// Dump renders a command sequence back to its RSF wire form: one command
// per line, `\n`-joined, with a trailing newline — the exact inverse of
// Parse, preserving canonical blob JSON (spec.md §4.3, testable property 5:
// emit(parse(rsf)) == rsf).
//
// Grounded on original_source/registers/rsf/__init__.py's dump().
func Dump(commands []Command) string {
	var b strings.Builder
	for _, c := range commands {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}
