package typeset

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testConfig returns a configuration for 200x200 pages with 20pt
// insets, so that every page has room for 16 lines of height 10.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.PageSize = Size{Width: 200, Height: 200}
	cfg.Insets = Insets{Top: 20, Right: 20, Bottom: 20, Left: 20}
	cfg.LineHeight = 10
	cfg.Style = &Style{FontSize: 10, Color: Black}
	cfg.Metrics = fixedMetrics{}
	return cfg
}

// wordLines returns a paragraph with one word per line.
func wordLines(words ...string) []Item {
	var items []Item
	for i, w := range words {
		if i > 0 {
			items = append(items, ExplicitBreak(160)...)
		}
		items = append(items, wordBox(w))
	}
	return append(items, ParagraphEnd()...)
}

func wordBox(w string) Box {
	return Box{Width: 5 * float64(len([]rune(w))), Content: Word{Text: w}}
}

func manyWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = "w"
	}
	return words
}

func textBlock(items []Item) *TextBlock {
	return &TextBlock{Items: items}
}

type run struct {
	Text string
	Page int
	X, Y float64
}

func textRuns(pages []*Page) []run {
	var res []run
	for _, p := range pages {
		for _, el := range p.Elements {
			if tr, ok := el.(*TextRun); ok {
				res = append(res, run{tr.Text, tr.PageNo, tr.Pos.X, tr.Pos.Y})
			}
		}
	}
	return res
}

func findRun(t *testing.T, pages []*Page, s string) run {
	t.Helper()
	for _, r := range textRuns(pages) {
		if r.Text == s {
			return r
		}
	}
	t.Fatalf("text %q not found", s)
	return run{}
}

func TestOverflow(t *testing.T) {
	cfg := testConfig()
	doc := &Document{
		Content: [][]Block{{textBlock(wordLines(manyWords(20)...))}},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if n := len(pages[0].Elements); n != 16 {
		t.Errorf("page 1 has %d elements, expected 16", n)
	}
	if n := len(pages[1].Elements); n != 4 {
		t.Errorf("page 2 has %d elements, expected 4", n)
	}

	limit := cfg.PageSize.Height - cfg.Insets.Bottom
	for _, p := range pages {
		for _, el := range p.Elements {
			if b := el.Extent().Bottom(); b > limit+1e-9 {
				t.Errorf("page %d: element ends at %g", p.Number, b)
			}
		}
	}
}

func TestPageNumbers(t *testing.T) {
	cfg := testConfig()
	doc := &Document{
		Content: [][]Block{
			{textBlock(wordLines(manyWords(40)...))},
			{textBlock(wordLines("a", "b"))},
		},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.Number != i+1 {
			t.Errorf("page %d has number %d", i+1, p.Number)
		}
		for _, el := range p.Elements {
			if el.Extent().PageNo != p.Number {
				t.Errorf("element %v on page %d", el.Extent(), p.Number)
			}
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Tolerance = 0
	_, err := Typeset(&Document{}, cfg)
	var e *InvalidConfigError
	if !errors.As(err, &e) || e.Field != "Tolerance" {
		t.Errorf("expected invalid tolerance, got %v", err)
	}

	cfg = testConfig()
	cfg.Metrics = nil
	_, err = Typeset(&Document{}, cfg)
	if !errors.As(err, &e) || e.Field != "Metrics" {
		t.Errorf("expected missing metrics, got %v", err)
	}
}

func footnoteRef(id string) Box {
	return Box{
		Width:   5,
		Content: FootnoteRef{Word: Word{Text: "*"}, NoteID: id},
	}
}

func TestFootnote(t *testing.T) {
	cfg := testConfig()
	items := []Item{wordBox("see"), footnoteRef("n1")}
	items = append(items, ParagraphEnd()...)
	doc := &Document{
		Content:   [][]Block{{textBlock(items)}},
		Footnotes: map[string][]Block{"n1": {textBlock(wordLines("note"))}},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}

	// footnote area: margin 12, rule 0.5, padding 6, one line of 10
	limit := 200 - 20 - 28.5
	note := findRun(t, pages, "note")
	if note.Y != limit+18.5 || note.X != 20 {
		t.Errorf("footnote at (%g, %g)", note.X, note.Y)
	}

	var sep *Rule
	for _, el := range pages[0].Elements {
		if r, ok := el.(*Rule); ok {
			sep = r
		}
	}
	if sep == nil {
		t.Fatal("no footnote separator")
	}
	if sep.Pos.Y != limit+12.25 || sep.Size.Width != 160.0/3 {
		t.Errorf("wrong separator %v", sep.ElementExtent)
	}
}

func TestFootnoteMovesLine(t *testing.T) {
	cfg := testConfig()
	var items []Item
	for i := 0; i < 15; i++ {
		items = append(items, wordBox("w"))
		items = append(items, ExplicitBreak(160)...)
	}
	items = append(items, wordBox("ref"), footnoteRef("n1"))
	items = append(items, ParagraphEnd()...)
	doc := &Document{
		Content:   [][]Block{{textBlock(items)}},
		Footnotes: map[string][]Block{"n1": {textBlock(wordLines("note"))}},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	ref := findRun(t, pages, "ref")
	note := findRun(t, pages, "note")
	if ref.Page != 2 || note.Page != 2 {
		t.Errorf("reference on page %d, note on page %d", ref.Page, note.Page)
	}
	if ref.Y != 20 {
		t.Errorf("reference line at y=%g", ref.Y)
	}
}

func TestFootnotesMoveTogether(t *testing.T) {
	cfg := testConfig()
	var items []Item
	for i := 0; i < 12; i++ {
		items = append(items, wordBox("w"))
		items = append(items, ExplicitBreak(160)...)
	}
	// The line at y=140 has room for one note, but not for two.
	items = append(items, wordBox("ref"), footnoteRef("n1"), footnoteRef("n2"))
	items = append(items, ParagraphEnd()...)
	doc := &Document{
		Content: [][]Block{{textBlock(items)}},
		Footnotes: map[string][]Block{
			"n1": {textBlock(wordLines("one"))},
			"n2": {textBlock(wordLines("two"))},
		},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	for _, el := range pages[0].Elements {
		if _, ok := el.(*Rule); ok {
			t.Error("footnote separator on page 1")
		}
	}

	ref := findRun(t, pages, "ref")
	one := findRun(t, pages, "one")
	two := findRun(t, pages, "two")
	if ref.Page != 2 || one.Page != 2 || two.Page != 2 {
		t.Errorf("reference on page %d, notes on pages %d and %d",
			ref.Page, one.Page, two.Page)
	}
	// footnote area: margin 12, rule 0.5, padding 6, two lines of 10
	limit := 200 - 20 - 38.5
	if one.Y != limit+18.5 || two.Y != limit+28.5 {
		t.Errorf("notes at y=%g and y=%g", one.Y, two.Y)
	}
}

func TestFootnoteInCell(t *testing.T) {
	items := []Item{wordBox("see"), footnoteRef("n1")}
	table := &TableBlock{
		Columns: []float64{80},
		Cells: []*Cell{
			{Content: []Block{textBlock(append(items, ParagraphEnd()...))}},
		},
	}
	doc := &Document{
		Content:   [][]Block{{table}},
		Footnotes: map[string][]Block{"n1": {textBlock(wordLines("note"))}},
	}
	pages, err := Typeset(doc, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range textRuns(pages) {
		if r.Text == "note" {
			t.Error("footnote from a table cell was placed")
		}
	}
}

func TestMissingFootnote(t *testing.T) {
	items := []Item{wordBox("see"), footnoteRef("nope")}
	doc := &Document{Content: [][]Block{{textBlock(append(items, ParagraphEnd()...))}}}
	_, err := Typeset(doc, testConfig())
	var e *MissingValueError
	if !errors.As(err, &e) {
		t.Errorf("expected MissingValueError, got %v", err)
	}
}

func TestFloatingImage(t *testing.T) {
	cfg := testConfig()
	img := &ImageBlock{Source: "x.png", Width: 50, Ratio: 2.5, Float: true}
	doc := &Document{
		Content: [][]Block{{img, textBlock(wordLines("a", "b", "c"))}},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}

	got := textRuns(pages)
	want := []run{
		{"a", 1, 70, 20},
		{"b", 1, 70, 30},
		{"c", 1, 20, 40},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}

	im := pages[0].Elements[0].(*Image)
	if im.Pos != (Position{X: 20, Y: 20}) || im.Size != (Size{Width: 50, Height: 20}) {
		t.Errorf("image at %v", im.ElementExtent)
	}
}

func TestFloatLineCount(t *testing.T) {
	cfg := testConfig()
	// 2.4 lines high, so two lines are shortened
	img := &ImageBlock{Source: "x.png", Width: 48, Ratio: 2, Float: true}
	doc := &Document{
		Content: [][]Block{{img, textBlock(wordLines("a", "b", "c"))}},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []run{
		{"a", 1, 68, 20},
		{"b", 1, 68, 30},
		{"c", 1, 20, 40},
	}
	if d := cmp.Diff(want, textRuns(pages)); d != "" {
		t.Error(d)
	}
}

func TestBackground(t *testing.T) {
	cfg := testConfig()
	style := &Style{FontSize: 10, Background: Color{R: 1, G: 1, B: 0.8, A: 1}}
	block := textBlock(wordLines(manyWords(20)...))
	block.Style = style
	doc := &Document{Content: [][]Block{{block}}}

	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	for i, wantHeight := range []float64{160, 40} {
		rect, ok := pages[i].Elements[0].(*Rect)
		if !ok {
			t.Fatalf("page %d: first element is %T", i+1, pages[i].Elements[0])
		}
		if rect.Pos.Y != 20 || rect.Size.Height != wantHeight || rect.Size.Width != 160 {
			t.Errorf("page %d: background %v", i+1, rect.ElementExtent)
		}
	}
}

func TestTocEntry(t *testing.T) {
	cfg := testConfig()
	sec1 := textBlock(wordLines("one"))
	sec1.ID = "sec1"
	sec2 := textBlock(wordLines("two"))
	sec2.ID = "sec2"
	toc := &TocEntryBlock{Items: wordLines("Two"), Target: "sec2"}

	doc := &Document{
		Content: [][]Block{{toc}, {sec1}, {sec2}},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}

	var ph *Placeholder
	var fill *Rule
	for _, el := range pages[0].Elements {
		switch el := el.(type) {
		case *Placeholder:
			ph = el
		case *Rule:
			fill = el
		}
	}
	if ph == nil {
		t.Fatal("no placeholder")
	}
	if ph.Text != "3" {
		t.Errorf("placeholder text %q, expected \"3\"", ph.Text)
	}
	if ph.Pos.X != 165 || ph.Pos.Y != 20 {
		t.Errorf("placeholder at %v", ph.Pos)
	}
	if fill == nil || fill.Dash == nil {
		t.Fatal("no dotted fill")
	}
	if fill.Pos.X != 20+15+tocFillGap || fill.Pos.X+fill.Size.Width != 165-tocFillGap {
		t.Errorf("fill from %g to %g", fill.Pos.X, fill.Pos.X+fill.Size.Width)
	}
}

func TestTocUnknownTarget(t *testing.T) {
	toc := &TocEntryBlock{Items: wordLines("Two"), Target: "missing"}
	_, err := Typeset(&Document{Content: [][]Block{{toc}}}, testConfig())
	if !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestTocWithoutText(t *testing.T) {
	toc := &TocEntryBlock{Items: ParagraphEnd(), Target: "x"}
	_, err := Typeset(&Document{Content: [][]Block{{toc}}}, testConfig())
	var e *StructuralMisuseError
	if !errors.As(err, &e) {
		t.Errorf("expected StructuralMisuseError, got %v", err)
	}
}

func TestAnchorFirstPage(t *testing.T) {
	cfg := testConfig()
	long := textBlock(wordLines(manyWords(20)...))
	long.ID = "long"
	toc := &TocEntryBlock{Items: wordLines("Long"), Target: "long"}
	doc := &Document{Content: [][]Block{{toc}, {long}}}

	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	for _, el := range pages[0].Elements {
		if ph, ok := el.(*Placeholder); ok && ph.Text != "2" {
			t.Errorf("target reported on page %q", ph.Text)
		}
	}
}

func TestTable(t *testing.T) {
	cfg := testConfig()
	cell := func(row, col int, s string) *Cell {
		return &Cell{Row: row, Col: col, Content: []Block{textBlock(wordLines(s))}}
	}
	table := &TableBlock{
		Columns: []float64{80, 80},
		Cells: []*Cell{
			cell(0, 0, "a"), cell(0, 1, "b"),
			cell(1, 0, "c"), cell(1, 1, "d"),
		},
	}
	after := textBlock(wordLines("after"))
	pages, err := Typeset(&Document{Content: [][]Block{{table, after}}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []run{
		{"a", 1, 20, 20},
		{"b", 1, 100, 20},
		{"c", 1, 20, 30},
		{"d", 1, 100, 30},
		{"after", 1, 20, 40},
	}
	if d := cmp.Diff(want, textRuns(pages)); d != "" {
		t.Error(d)
	}
}

func TestTableInCell(t *testing.T) {
	inner := &TableBlock{Columns: []float64{10}}
	table := &TableBlock{
		Columns: []float64{80},
		Cells:   []*Cell{{Content: []Block{inner}}},
	}
	_, err := Typeset(&Document{Content: [][]Block{{table}}}, testConfig())
	var e *StructuralMisuseError
	if !errors.As(err, &e) {
		t.Errorf("expected StructuralMisuseError, got %v", err)
	}
}

func TestHeadersAndFooters(t *testing.T) {
	cfg := testConfig()
	pageNo := append([]Item{Box{Content: PageNumber{}}}, ParagraphEnd()...)
	doc := &Document{
		Content: [][]Block{{textBlock(wordLines("x"))}, {textBlock(wordLines("y"))}},
		Headers: []PageContent{
			{Blocks: []Block{textBlock(wordLines("other"))}},
			{Range: &PageRange{Start: 1, End: 1}, Blocks: []Block{textBlock(wordLines("first"))}},
		},
		Footers: []PageContent{
			{Range: &PageRange{Start: 2, End: LastPage}, Blocks: []Block{textBlock(pageNo)}},
		},
	}
	pages, err := Typeset(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []run{
		{"x", 1, 20, 20},
		{"first", 1, 20, 10},
		{"y", 2, 20, 20},
		{"other", 2, 20, 10},
		{"2", 2, 20, 180},
	}
	if d := cmp.Diff(want, textRuns(pages)); d != "" {
		t.Error(d)
	}
}

func TestCodeBlock(t *testing.T) {
	cfg := testConfig()
	code := &CodeBlock{
		Lines:           []string{"skip", "aaaa bbbb", "c"},
		StartLine:       2,
		ShowLineNumbers: true,
	}
	pages, err := Typeset(&Document{Content: [][]Block{{code}}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []run{
		{"2", 1, 5, 20},
		{"aaaa", 1, 20, 20},
		{"bbbb", 1, 43, 20},
		{"3", 1, 5, 30},
		{"c", 1, 20, 30},
	}
	if d := cmp.Diff(want, textRuns(pages)); d != "" {
		t.Error(d)
	}
}

func TestCodeWrap(t *testing.T) {
	cfg := testConfig()
	// 5 tokens of width 40, separated by spaces of width 3
	code := &CodeBlock{Lines: []string{"aaaaaaaa aaaaaaaa aaaaaaaa aaaaaaaa aaaaaaaa"}}
	pages, err := Typeset(&Document{Content: [][]Block{{code}}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	runs := textRuns(pages)
	want := []run{
		{"aaaaaaaa", 1, 20, 20},
		{"aaaaaaaa", 1, 63, 20},
		{"aaaaaaaa", 1, 106, 20},
		{"aaaaaaaa", 1, 20, 30},
		{"aaaaaaaa", 1, 63, 30},
	}
	if d := cmp.Diff(want, runs); d != "" {
		t.Error(d)
	}
}

func TestMath(t *testing.T) {
	cfg := testConfig()
	m := &MathBlock{Expr: "x^2", Size: Size{Width: 40, Height: 20}}
	m.Style = &Style{FontSize: 10, Align: AlignCenter}
	pages, err := Typeset(&Document{Content: [][]Block{{m, textBlock(wordLines("z"))}}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	el := pages[0].Elements[0].(*MathExpr)
	if el.Pos != (Position{X: 80, Y: 20}) {
		t.Errorf("formula at %v", el.Pos)
	}
	if z := findRun(t, pages, "z"); z.Y != 40 {
		t.Errorf("text after formula at y=%g", z.Y)
	}
}

type failingMetrics struct{ fixedMetrics }

var errNoGlyph = errors.New("no glyph")

func (failingMetrics) MeasureString(*Style, string) (StringMetrics, error) {
	return StringMetrics{}, errNoGlyph
}

func TestMissingMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics = failingMetrics{}
	block := textBlock(wordLines("a"))
	block.Pos = "input.txt:3"
	_, err := Typeset(&Document{Content: [][]Block{{block}}}, cfg)

	var e *MissingValueError
	if !errors.As(err, &e) {
		t.Fatalf("expected MissingValueError, got %v", err)
	}
	if e.Node != &block.Node {
		t.Error("error does not identify the node")
	}
	if !errors.Is(err, errNoGlyph) {
		t.Error("cause not wrapped")
	}
}

func TestImageWithoutRatio(t *testing.T) {
	img := &ImageBlock{Source: "x.png"}
	_, err := Typeset(&Document{Content: [][]Block{{img}}}, testConfig())
	var e *MissingValueError
	if !errors.As(err, &e) {
		t.Errorf("expected MissingValueError, got %v", err)
	}
}

func TestImageMovesToNextPage(t *testing.T) {
	cfg := testConfig()
	img := &ImageBlock{Source: "x.png", Ratio: 1} // 160x160
	pages, err := Typeset(&Document{
		Content: [][]Block{{textBlock(wordLines("a")), img}},
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	im := pages[1].Elements[0].(*Image)
	if im.Pos.Y != 20 || math.Abs(im.Size.Height-160) > 1e-9 {
		t.Errorf("image at %v", im.ElementExtent)
	}
}
