package block

import "testing"

func TestStyleForFile(t *testing.T) {
	tests := []struct {
		name     string
		expected Style
	}{
		{"main.go", StyleBrace},
		{"app.js", StyleBrace},
		{"lib.rs", StyleBrace},
		{"script.py", StyleIndentation},
		{"Script.PY", StyleIndentation},
		{"stub.pyi", StyleIndentation},
		{"config.yaml", StyleIndentation},
		{"config.yml", StyleIndentation},
		{"unknown.xyz", StyleBrace},
		{"Makefile", StyleBrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StyleForFile(tt.name); got != tt.expected {
				t.Errorf("StyleForFile(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestBraceBlockWellFormed(t *testing.T) {
	lines := []string{
		"function f() {",
		"  x = 1;",
		"}",
	}
	r := Extract(StyleBrace, lines, 1)
	if r.Start != 0 || r.End != 2 {
		t.Errorf("got (%d, %d), want (0, 2)", r.Start, r.End)
	}
}

func TestBraceBlockNoOpenerFallsBack(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e", "f", "g"}
	r := Extract(StyleBrace, lines, 3)
	if r.Start != 0 || r.End != 6 {
		t.Errorf("got (%d, %d), want fallback window (0, 6)", r.Start, r.End)
	}
}

func TestBraceBlockFallbackClippedAtStart(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	r := Extract(StyleBrace, lines, 1)
	if r.Start != 0 || r.End != 4 {
		t.Errorf("got (%d, %d), want (0, 4)", r.Start, r.End)
	}
}

func TestBraceBlockNested(t *testing.T) {
	lines := []string{
		"func outer() {",
		"	if x {",
		"		y()",
		"	}",
		"	z()",
		"}",
	}
	// Match inside the inner block: backward scan stops at the first line
	// where open braces outnumber close braces, which is the inner "if".
	r := Extract(StyleBrace, lines, 2)
	if r.Start != 1 {
		t.Errorf("Start = %d, want 1 (nearest imbalance line)", r.Start)
	}
	if r.End != 3 {
		t.Errorf("End = %d, want 3 (first line where closes exceed opens)", r.End)
	}
}

func TestBraceBlockDeclKeywordWins(t *testing.T) {
	// The "class " line must win over a nearer brace-imbalance candidate
	// because the keyword check runs before the imbalance check on each
	// line and the scan walks outward from the match.
	lines := []string{
		"class Widget {",
		"  render() {",
		"    return nothing;",
		"  }",
		"}",
	}
	r := Extract(StyleBrace, lines, 1)
	// Line 1 itself tips the imbalance, but it also precedes the keyword
	// line; the scan stops at line 1 (nearest candidate wins).
	if r.Start != 1 {
		t.Errorf("Start = %d, want 1", r.Start)
	}

	r = Extract(StyleBrace, lines, 0)
	if r.Start != 0 {
		t.Errorf("Start = %d, want 0 (keyword on the match line itself)", r.Start)
	}
}

func TestBraceBlockKeywordBeforeImbalanceOnSameLine(t *testing.T) {
	lines := []string{
		"func helper() int {",
		"= function handler {{",
		"x",
		"}",
		"}",
	}
	r := Extract(StyleBrace, lines, 2)
	// Line 1 satisfies both conditions; the keyword branch fires first and
	// the result is the same line either way, but the scan must stop there.
	if r.Start != 1 {
		t.Errorf("Start = %d, want 1", r.Start)
	}
}

func TestBraceBlockUnterminatedKeepsFallbackEnd(t *testing.T) {
	lines := []string{
		"function big() {",
		"a", "b", "c", "d", "e", "f", "g", "h",
	}
	r := Extract(StyleBrace, lines, 1)
	if r.Start != 0 {
		t.Errorf("Start = %d, want 0", r.Start)
	}
	// No closing brace before EOF: the end stays at the 3-after window.
	if r.End != 4 {
		t.Errorf("End = %d, want 4 (fallback window, documented truncation)", r.End)
	}
}

func TestIndentBlockSimple(t *testing.T) {
	lines := []string{
		"def f():",
		"    x = 1",
		"    y = 2",
		"z = 3",
	}
	r := Extract(StyleIndentation, lines, 1)
	if r.Start != 0 || r.End != 2 {
		t.Errorf("got (%d, %d), want (0, 2)", r.Start, r.End)
	}
}

func TestIndentBlockBlankLinesInvisible(t *testing.T) {
	lines := []string{
		"def f():",
		"",
		"    x = 1",
		"   \t ",
		"    y = 2",
		"",
		"z = 3",
	}
	r := Extract(StyleIndentation, lines, 2)
	if r.Start != 0 {
		t.Errorf("Start = %d, want 0 (blank lines must not break the scan)", r.Start)
	}
	if r.End != 5 {
		t.Errorf("End = %d, want 5 (block ends just before 'z = 3')", r.End)
	}
}

func TestIndentBlockSecondaryProbe(t *testing.T) {
	// The first lower-indented line above the match has no colon; the
	// probe walks up to five lines further back and finds the header.
	lines := []string{
		"def f(a,",
		"      b):",
		"    setup()",
		"    if ready:",
		"        go()",
	}
	r := Extract(StyleIndentation, lines, 4)
	// Backward from line 4 (indent 8): line 3 has indent 4 < 8 and ends
	// with ':', so it is the header directly.
	if r.Start != 3 {
		t.Errorf("Start = %d, want 3", r.Start)
	}

	lines = []string{
		"def f():",
		"    x = [1,",
		"    2]",
		"    body()",
		"        deep()",
	}
	r = Extract(StyleIndentation, lines, 4)
	// Line 3 (indent 4 < 8) has no colon; the probe finds "def f():".
	if r.Start != 0 {
		t.Errorf("Start = %d, want 0 (found via secondary probe)", r.Start)
	}
}

func TestIndentBlockProbeMissStillStopsScan(t *testing.T) {
	lines := []string{
		"a = 1",
		"b = 2",
		"    c = 3",
	}
	r := Extract(StyleIndentation, lines, 2)
	// Line 1 is lower-indented with no colon and the probe finds nothing;
	// the scan stops anyway, leaving the fallback start.
	if r.Start != 0 {
		t.Errorf("Start = %d, want 0 (fallback)", r.Start)
	}
}

func TestIndentBlockNoBoundaryFallsBack(t *testing.T) {
	// All lines share indent 0, so no header is found and the start falls
	// back to matchIndex-3. The forward scan still runs against the fallback
	// line's indent: the first later non-blank line at indent <= 0 is index
	// 5, so the block ends at 4.
	lines := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	r := Extract(StyleIndentation, lines, 4)
	if r.Start != 1 || r.End != 4 {
		t.Errorf("got (%d, %d), want (1, 4)", r.Start, r.End)
	}
}

func TestIndentBlockFallbackEndSurvivesDeeperTail(t *testing.T) {
	// Fallback start again, but every later line is more deeply indented, so
	// the forward scan finds no boundary and the fallback end stands.
	lines := []string{"a", "b", "c", "d", "e", "    f", "    g", "    h"}
	r := Extract(StyleIndentation, lines, 4)
	if r.Start != 1 || r.End != 7 {
		t.Errorf("got (%d, %d), want (1, 7)", r.Start, r.End)
	}
}

func TestExtractIdempotent(t *testing.T) {
	lines := []string{
		"def f():",
		"    x = 1",
		"    y = 2",
		"z = 3",
	}
	first := Extract(StyleIndentation, lines, 1)
	second := Extract(StyleIndentation, lines, 1)
	if first != second {
		t.Errorf("repeated extraction differs: %v vs %v", first, second)
	}
}

func TestExtractBoundsInvariant(t *testing.T) {
	inputs := [][]string{
		{"x"},
		{"{", "}", "{"},
		{"}", "}", "}"},
		{"def f():", "    pass"},
		{"", "", ""},
		{"function a() {", "b", "c", "d", "e", "f", "g", "h", "i"},
	}

	for _, lines := range inputs {
		for m := range lines {
			for _, style := range []Style{StyleBrace, StyleIndentation} {
				r := Extract(style, lines, m)
				if r.Start < 0 || r.Start > m || r.End < m || r.End > len(lines)-1 {
					t.Errorf("style %v lines %q match %d: range (%d, %d) violates bounds",
						style, lines, m, r.Start, r.End)
				}
			}
		}
	}
}
