package format

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLedgerLines(t *testing.T) {
	led := NewLedger([]byte("  x = 1  \n\nend\n"))

	text, ok := led.Line(1)
	assert.True(t, ok)
	assert.Equal(t, "x = 1", text)

	text, ok = led.Line(2)
	assert.True(t, ok)
	assert.Equal(t, "", text)

	text, ok = led.Line(3)
	assert.True(t, ok)
	assert.Equal(t, "end", text)

	_, ok = led.Line(0)
	assert.False(t, ok)
	_, ok = led.Line(99)
	assert.False(t, ok)
}

func TestLedgerConsume(t *testing.T) {
	led := NewLedger([]byte("# note\nx = 1\n"))

	_, ok := led.Line(1)
	assert.True(t, ok)

	led.Consume(1)
	_, ok = led.Line(1)
	assert.False(t, ok)

	// Other lines unaffected
	text, ok := led.Line(2)
	assert.True(t, ok)
	assert.Equal(t, "x = 1", text)
}

func TestLedgerInlineHarvest(t *testing.T) {
	led := NewLedger([]byte("x = 1 # hi\n# solo comment\ny = 2\n"))

	// Only the trailing comment is harvested; the freestanding one is a
	// line of its own.
	assert.Equal(t, 1, led.PendingInline())

	comment, ok := led.PopInline(Fingerprint("x = 1 "))
	assert.True(t, ok)
	assert.Equal(t, "# hi", comment)

	_, ok = led.PopInline(Fingerprint("x = 1 "))
	assert.False(t, ok)
	assert.Equal(t, 0, led.PendingInline())
}

func TestLedgerInlineFIFO(t *testing.T) {
	led := NewLedger([]byte("a # one\na # two\n"))

	first, ok := led.PopInline("a")
	assert.True(t, ok)
	assert.Equal(t, "# one", first)

	second, ok := led.PopInline("a")
	assert.True(t, ok)
	assert.Equal(t, "# two", second)

	_, ok = led.PopInline("a")
	assert.False(t, ok)
}

func TestLedgerIgnoresHashInStrings(t *testing.T) {
	led := NewLedger([]byte("s = \"#tag\"\nc = '#x'\n"))
	assert.Equal(t, 0, led.PendingInline())
}

func TestLedgerHashCharLiteral(t *testing.T) {
	led := NewLedger([]byte("c = ?# # real comment\n"))

	assert.Equal(t, 1, led.PendingInline())
	comment, ok := led.PopInline(Fingerprint("c = ?# "))
	assert.True(t, ok)
	assert.Equal(t, "# real comment", comment)
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  foo(1) + bar_2 ", "foo1bar_2"},
		{"x = compute()", "xcompute"},
		{"x=compute()", "xcompute"},
		{"", ""},
		{"!@$%^", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Fingerprint(tt.input))
	}
}

func TestCommentStart(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"x = 1 # note", 6},
		{"# full line", 0},
		{"x = 1", -1},
		{`s = "a # b"`, -1},
		{`s = "a" # c`, 8},
		{"c = '#'", -1},
		{"c = ?#", -1},
		{`s = "\"# still inside"`, -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, commentStart(tt.line))
	}
}
