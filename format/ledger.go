package format

import (
	"strings"
)

// Ledger is the per-invocation store of original source lines and pending
// inline comments. It is built once per Format call, consumed during the
// annotation and reinjection phases, and discarded afterwards. A Ledger
// must not be shared between concurrent invocations; each invocation owns
// its own instance.
//
// Inline comments are keyed by a loose fingerprint of the code preceding
// them (see Fingerprint). Two distinct source lines that collapse to the
// same fingerprint share a FIFO queue, so a comment can end up attached to
// the wrong occurrence. This is an accepted imprecision: the parser does
// not expose byte-exact original spans, and the fingerprint survives the
// re-indentation and operator re-spacing the renderer performs.
type Ledger struct {
	lines  []ledgerLine
	inline map[string][]string
}

type ledgerLine struct {
	text     string
	consumed bool
}

// NewLedger harvests the raw source into a ledger: one trimmed entry per
// line, plus a fingerprint-keyed queue of same-line trailing comments.
func NewLedger(src []byte) *Ledger {
	raw := strings.Split(string(src), "\n")

	led := &Ledger{
		lines:  make([]ledgerLine, len(raw)),
		inline: make(map[string][]string),
	}

	for i, line := range raw {
		trimmed := strings.TrimSpace(line)
		led.lines[i] = ledgerLine{text: trimmed}

		idx := commentStart(line)
		if idx <= 0 {
			continue
		}
		code := strings.TrimSpace(line[:idx])
		if code == "" {
			// Whole line is a comment; handled by the annotation pass.
			continue
		}
		comment := strings.TrimRight(line[idx:], " \t\r")
		key := Fingerprint(line[:idx])
		led.inline[key] = append(led.inline[key], comment)
	}

	return led
}

// Line returns the trimmed text of the 1-indexed line. ok is false when
// the line is out of range or already consumed.
func (l *Ledger) Line(n int) (text string, ok bool) {
	if n < 1 || n > len(l.lines) {
		return "", false
	}
	entry := l.lines[n-1]
	if entry.consumed {
		return "", false
	}
	return entry.text, true
}

// Consume marks a line as used so a block comment attached to one node's
// prefix is never re-attached elsewhere.
func (l *Ledger) Consume(n int) {
	if n >= 1 && n <= len(l.lines) {
		l.lines[n-1].consumed = true
	}
}

// PopInline removes and returns the next pending inline comment for the
// given fingerprint, in first-seen order.
func (l *Ledger) PopInline(key string) (string, bool) {
	queue := l.inline[key]
	if len(queue) == 0 {
		return "", false
	}
	comment := queue[0]
	if len(queue) == 1 {
		delete(l.inline, key)
	} else {
		l.inline[key] = queue[1:]
	}
	return comment, true
}

// PendingInline reports how many inline comments remain unclaimed.
func (l *Ledger) PendingInline() int {
	total := 0
	for _, q := range l.inline {
		total += len(q)
	}
	return total
}

// Fingerprint collapses a line to its word characters only. Re-indentation
// and operator re-spacing do not change a line's fingerprint, which is what
// lets inline comments find their line again after rendering.
func Fingerprint(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// commentStart returns the byte offset of the first comment marker on the
// line that is outside any string, charlist or char literal, or -1.
func commentStart(line string) int {
	var inString, inCharlist bool
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && (inString || inCharlist):
			i++ // skip escaped character
		case c == '"' && !inCharlist:
			inString = !inString
		case c == '\'' && !inString:
			inCharlist = !inCharlist
		case c == '?' && !inString && !inCharlist:
			i++ // char literal: the next byte is data, not syntax
		case c == '#' && !inString && !inCharlist:
			return i
		}
	}
	return -1
}
