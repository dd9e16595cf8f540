package textpar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"

	"seehuhn.de/go/typeset"
)

// fixedMetrics sets every character 5 units wide, with spaces of 3 units.
type fixedMetrics struct{}

func (fixedMetrics) MeasureString(_ *typeset.Style, text string) (typeset.StringMetrics, error) {
	n := len([]rune(text))
	return typeset.StringMetrics{Width: 5 * float64(n), Height: 10, Ascent: 8}, nil
}

func (fixedMetrics) SpaceWidth(*typeset.Style) (float64, error) {
	return 3, nil
}

type fakeHyphenator map[string][]string

func (h fakeHyphenator) Hyphenate(word string) []string {
	if parts, ok := h[word]; ok {
		return parts
	}
	return []string{word}
}

var testStyle = &typeset.Style{Font: "test", FontSize: 10}

func word(text string) typeset.Box {
	return typeset.Box{
		Width:   5 * float64(len([]rune(text))),
		Content: typeset.Word{Text: text},
	}
}

func TestSpaces(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)

	b := NewBuilder(fixedMetrics{}, testStyle)
	err := b.AddText(nil, "Hello   world. Next")
	if err != nil {
		t.Fatal(err)
	}
	want := []typeset.Item{
		word("Hello"),
		typeset.Glue{Width: 3, Stretch: 1.5, Shrink: 1},
		word("world."),
		typeset.Glue{Width: 4.5, Stretch: 4.5, Shrink: 3},
		word("Next"),
	}
	if d := cmp.Diff(want, b.Items()); d != "" {
		t.Error(d)
	}
}

func TestSpaceAcrossCalls(t *testing.T) {
	b := NewBuilder(fixedMetrics{}, testStyle)
	bold := &typeset.Style{Font: "bold", FontSize: 10}
	if err := b.AddText(nil, "a "); err != nil {
		t.Fatal(err)
	}
	if err := b.AddText(bold, "b"); err != nil {
		t.Fatal(err)
	}
	want := []typeset.Item{
		word("a"),
		typeset.Glue{Width: 3, Stretch: 1.5, Shrink: 1},
		typeset.Box{Width: 5, Content: typeset.Word{Text: "b", Style: bold}},
	}
	if d := cmp.Diff(want, b.Items()); d != "" {
		t.Error(d)
	}
}

func TestLeadingSpace(t *testing.T) {
	b := NewBuilder(fixedMetrics{}, testStyle)
	if err := b.AddText(nil, "  x"); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]typeset.Item{word("x")}, b.Items()); d != "" {
		t.Error(d)
	}
}

func TestNewline(t *testing.T) {
	b := NewBuilder(fixedMetrics{}, testStyle)
	b.Width = 200
	if err := b.AddText(nil, "one\ntwo"); err != nil {
		t.Fatal(err)
	}
	var want []typeset.Item
	want = append(want, word("one"))
	want = append(want, typeset.ExplicitBreak(200)...)
	want = append(want, word("two"))
	if d := cmp.Diff(want, b.Items()); d != "" {
		t.Error(d)
	}
}

func TestHyphenation(t *testing.T) {
	b := NewBuilder(fixedMetrics{}, testStyle)
	b.Hyphenator = fakeHyphenator{
		"typesetting": {"type", "set", "ting"},
	}
	if err := b.AddText(nil, "typesetting, ok"); err != nil {
		t.Fatal(err)
	}
	hyphen := typeset.Penalty{Width: 5, Cost: HyphenPenalty, Flagged: true, Text: "-"}
	want := []typeset.Item{
		word("type"),
		hyphen,
		word("set"),
		hyphen,
		word("ting,"),
		typeset.Glue{Width: 3, Stretch: 1.5, Shrink: 1},
		word("ok"),
	}
	if d := cmp.Diff(want, b.Items()); d != "" {
		t.Error(d)
	}
}

func TestExplicitHyphen(t *testing.T) {
	b := NewBuilder(fixedMetrics{}, testStyle)
	if err := b.AddText(nil, "well-known"); err != nil {
		t.Fatal(err)
	}
	items := b.Items()
	var text []string
	breaks := 0
	for _, item := range items {
		switch h := item.(type) {
		case typeset.Box:
			text = append(text, h.Content.(typeset.Word).Text)
		case typeset.Penalty:
			if h.Width != 0 || !h.Flagged {
				t.Errorf("unexpected penalty %v", h)
			}
			breaks++
		default:
			t.Errorf("unexpected item %v", h)
		}
	}
	if got := strings.Join(text, ""); got != "well-known" {
		t.Errorf("got %q", got)
	}
	if breaks > 1 {
		t.Errorf("%d break opportunities", breaks)
	}
}

func TestSplitLetters(t *testing.T) {
	cases := []struct{ in, pre, core, post string }{
		{"word", "", "word", ""},
		{"(word),", "(", "word", "),"},
		{"«Größe»", "«", "Größe", "»"},
		{"123", "123", "", ""},
		{"well-known", "well-known", "", ""},
	}
	for _, c := range cases {
		pre, core, post := splitLetters(c.in)
		if pre != c.pre || core != c.core || post != c.post {
			t.Errorf("splitLetters(%q) = %q %q %q", c.in, pre, core, post)
		}
	}
}

func TestParagraph(t *testing.T) {
	b := NewBuilder(fixedMetrics{}, testStyle)
	b.ParIndent = 15
	if err := b.AddListItem(nil, "1.", 20); err != nil {
		t.Fatal(err)
	}
	if err := b.AddText(nil, "see page "); err != nil {
		t.Fatal(err)
	}
	if err := b.AddPageNumber(nil); err != nil {
		t.Fatal(err)
	}
	if err := b.AddFootnoteRef(nil, "*", "n1"); err != nil {
		t.Fatal(err)
	}
	items := b.Paragraph()

	first, ok := items[0].(typeset.Box)
	if !ok {
		t.Fatalf("first item is %T", items[0])
	}
	if start, ok := first.Content.(typeset.ListItemStart); !ok || start.Indent != 20 || first.Width != 20 {
		t.Errorf("bad list item start %v", first)
	}

	end := typeset.ParagraphEnd()
	if d := cmp.Diff(end, items[len(items)-len(end):]); d != "" {
		t.Errorf("bad paragraph end: %s", d)
	}
	if len(b.Items()) != 0 {
		t.Error("builder not reset")
	}

	found := false
	for _, item := range items {
		if box, ok := item.(typeset.Box); ok {
			if ref, ok := box.Content.(typeset.FootnoteRef); ok {
				found = ref.NoteID == "n1" && box.Width == 5
			}
		}
	}
	if !found {
		t.Error("footnote reference missing")
	}

	p := &typeset.Paragraph{Items: items, LineWidth: typeset.ConstantWidth(100)}
	res := typeset.BreakLines(p, typeset.DefaultConfig())
	if len(res.Breaks) == 0 {
		t.Error("no line breaks")
	}
}
