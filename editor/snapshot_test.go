package editor

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/mdpage/page"
)

func TestStateFromMarkdown(t *testing.T) {
	st := StateFromMarkdown("# T\n- a **b**")
	if len(st.Nodes) != 2 {
		t.Fatalf("nodes=%d, want 2", len(st.Nodes))
	}
	if got := st.Nodes[0].Type; got != "h1" {
		t.Fatalf("type=%q, want h1", got)
	}
	dot := st.Nodes[1]
	if dot.Type != "d" || len(dot.Children) != 2 || dot.Children[1].Type != "b" {
		t.Fatalf("dot=%+v, want d with a t and a b child", dot)
	}
	if got := dot.Children[0].Content[page.TextKey]; got != "a " {
		t.Fatalf("text=%q, want %q", got, "a ")
	}
}

func TestState_RootKeepsHashesAndContent(t *testing.T) {
	st := State{Nodes: []NodeState{{
		Hash:    "AAAA",
		Type:    "ch",
		Content: map[string]string{page.CheckedKey: "true"},
		Children: []NodeState{
			{Hash: "BBBB", Type: "t", Content: map[string]string{page.TextKey: "x"}},
		},
	}}}
	root := st.Root()
	if got, want := page.Outline(root), `Page[Check[RawText("x")]]`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	check := root.Children[0]
	if check.Hash != "AAAA" || check.Children[0].Hash != "BBBB" {
		t.Fatalf("hashes=%q/%q, want AAAA/BBBB", check.Hash, check.Children[0].Hash)
	}

	// the tree owns its content maps
	st.Nodes[0].Content[page.CheckedKey] = "false"
	if check.Content[page.CheckedKey] != "true" {
		t.Fatalf("content shared with the state")
	}
}

func TestState_ForeignTypesLoadAsUnknown(t *testing.T) {
	st := State{Nodes: []NodeState{
		{Hash: "AAAA", Type: "p"},
		{Hash: "BBBB", Type: "zz", Content: map[string]string{"k": "v"}, Children: []NodeState{
			{Hash: "CCCC", Type: "t", Content: map[string]string{page.TextKey: "x"}},
		}},
	}}
	root := st.Root()
	for i, want := range []string{"p", "zz"} {
		n := root.Children[i]
		if n.Kind != page.Unknown || n.Foreign != want {
			t.Fatalf("node %d: kind=%v foreign=%q, want Unknown/%q", i, n.Kind, n.Foreign, want)
		}
	}
	if got := root.Children[1].Children[0].Kind; got != page.RawText {
		t.Fatalf("child kind=%v, want RawText", got)
	}

	back := nodeStates(root.Children)
	if back[0].Type != "p" || back[1].Type != "zz" || back[1].Content["k"] != "v" || back[1].Children[0].Hash != "CCCC" {
		t.Fatalf("foreign nodes not saved back unchanged: %+v", back)
	}
}

func TestState_YAMLShape(t *testing.T) {
	st := State{
		Nodes:           []NodeState{{Hash: "AAAA", Type: "tb", Children: []NodeState{{Hash: "BBBB", Type: "t", Content: map[string]string{"text": "hi"}}}}},
		TopHash:         "AAAA",
		TopPad:          10,
		TopScrollOffset: 2.5,
		BotPad:          30,
	}
	raw, err := yaml.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `nodes:
    - hash: AAAA
      type: tb
      children:
        - hash: BBBB
          type: t
          content:
            text: hi
top_hash: AAAA
top_pad: 10
top_scroll_offset: 2.5
bot_pad: 30
`
	if got := string(raw); got != want {
		t.Fatalf("yaml=\n%s\nwant\n%s", got, want)
	}

	js, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	var back State
	if err := json.Unmarshal(js, &back); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}
	if back.TopHash != "AAAA" || back.Nodes[0].Children[0].Content["text"] != "hi" {
		t.Fatalf("json round trip=%+v", back)
	}
}
