package format

import (
	"strings"
)

// reinject walks the rendered output line by line, trims trailing
// whitespace, and appends the next pending inline comment whose harvested
// fingerprint matches the line's. Comments are consumed in first-seen
// order, each exactly once. The result is newline-terminated.
func reinject(text string, led *Ledger) string {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line != "" {
			if comment, ok := led.PopInline(Fingerprint(line)); ok {
				line += " " + comment
			}
		}
		lines[i] = line
	}

	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
