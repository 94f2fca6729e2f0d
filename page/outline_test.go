package page

import "testing"

func TestOutline_RoundTrip(t *testing.T) {
	cases := []string{
		`Page[]`,
		`Page[TextBlock[RawText("")]]`,
		`Page[Quote[TextBlock[RawText("a"), Bold[RawText("b")]]], H1[RawText("say \"hi\"")]]`,
	}
	for _, c := range cases {
		n, err := ParseOutline(c)
		if err != nil {
			t.Fatalf("parse %s: %v", c, err)
		}
		if got := Outline(n); got != c {
			t.Fatalf("outline=%s, want %s", got, c)
		}
	}
}

func TestParseOutline_Whitespace(t *testing.T) {
	n, err := ParseOutline("Page[\n  TextBlock[ RawText( \"a\" ) ] ,\n  TextBlock[RawText(\"b\")]\n]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, want := Outline(n), `Page[TextBlock[RawText("a")], TextBlock[RawText("b")]]`; got != want {
		t.Fatalf("outline=%s, want %s", got, want)
	}
}

func TestParseOutline_Errors(t *testing.T) {
	for _, c := range []string{
		`Pag[]`,
		`Page[TextBlock[RawText("a")]`,
		`Page[TextBlock[RawText(a)]]`,
		`Page[] x`,
	} {
		if _, err := ParseOutline(c); err == nil {
			t.Fatalf("expected %s to fail", c)
		}
	}
}

func TestOutlineCaret(t *testing.T) {
	root, caret, off, err := ParseOutlineCaret(`Page[TextBlock[RawText("ab|c")]]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, want := caret.Text(), "abc"; got != want {
		t.Fatalf("caret text=%q, want %q", got, want)
	}
	if off != 2 {
		t.Fatalf("offset=%d, want 2", off)
	}
	if got, want := OutlineCaret(root, caret, off), `Page[TextBlock[RawText("ab|c")]]`; got != want {
		t.Fatalf("outline=%s, want %s", got, want)
	}
	if _, _, _, err := ParseOutlineCaret(`Page[]`); err == nil {
		t.Fatalf("expected missing caret to fail")
	}
}
