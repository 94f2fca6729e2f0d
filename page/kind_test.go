package page

import "testing"

func TestKind_Tokens(t *testing.T) {
	want := map[Kind]string{
		Page: "p", Indent: "in", Quote: "q", TextBlock: "tb",
		H1: "h1", H2: "h2", H3: "h3", H4: "h4", H5: "h5",
		CodeBlock: "cd", Dot: "d", Num: "n", Check: "ch", Table: "tl",
		Bold: "b", Italic: "i", Highlight: "h", CodeInline: "ci",
		FileLink: "fl", URLLink: "ul", RawText: "t",
	}
	for k, tok := range want {
		if got := k.Token(); got != tok {
			t.Fatalf("%s token=%q, want %q", k, got, tok)
		}
		back, ok := ParseKind(tok)
		if !ok || back != k {
			t.Fatalf("ParseKind(%q)=%v,%v, want %v", tok, back, ok, k)
		}
	}
	if _, ok := ParseKind("zz"); ok {
		t.Fatalf("expected unknown token to fail")
	}
}

func TestKind_Classes(t *testing.T) {
	// block, branch, leaf block
	cases := []struct {
		k    Kind
		want [3]bool
	}{
		{Page, [3]bool{true, true, false}},
		{Quote, [3]bool{true, true, false}},
		{TextBlock, [3]bool{true, false, true}},
		{H3, [3]bool{true, false, true}},
		{Bold, [3]bool{false, true, false}},
		{RawText, [3]bool{false, false, false}},
	}
	for _, tc := range cases {
		got := [3]bool{tc.k.IsBlock(), tc.k.IsBranch(), tc.k.IsLeafBlock()}
		if got != tc.want {
			t.Fatalf("%s classes=%v, want %v", tc.k, got, tc.want)
		}
	}
}

func TestInnateHeights(t *testing.T) {
	m := InnateHeights(0.25)
	if got, want := m["tb"], 1.0; got != want {
		t.Fatalf("tb=%v, want %v", got, want)
	}
	if got, want := m["h1"], 3.0; got != want {
		t.Fatalf("h1=%v, want %v", got, want)
	}
	if _, ok := m["q"]; ok {
		t.Fatalf("branch blocks carry no innate height")
	}
}
