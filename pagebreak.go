package typeset

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/npillmayer/schuko/tracing"
)

// FloatState describes the space taken by a floating image.  Lines
// above UntilY are shortened by Width and shifted right by Indent.
type FloatState struct {
	UntilY float64
	Width  float64
	Indent float64
}

var noFloat = FloatState{UntilY: -1}

func (f FloatState) active(y float64) bool {
	return f.UntilY > y
}

// Context holds the state of the pagination engine.  A new Context is
// used for every document.
type Context struct {
	cfg   *Config
	doc   *Document
	trace tracing.Trace

	size   Size
	insets Insets

	// offset is added to the page numbers.  Nested contexts use this
	// to report the number of the page they are placed on.
	offset int
	nested bool

	pages    []*Page
	elements []Element // elements on the current page
	y        float64
	float    FloatState
	notes    []footnote

	refs   *references
	anchor string // ID of a block which has not emitted any elements yet
}

type footnote struct {
	elements []Element
	height   float64
}

func newContext(doc *Document, cfg *Config) *Context {
	return &Context{
		cfg:    cfg,
		doc:    doc,
		trace:  cfg.tracer(),
		size:   cfg.PageSize,
		insets: cfg.Insets,
		y:      cfg.Insets.Top,
		float:  noFloat,
		refs:   newReferences(),
	}
}

// child returns a context for typesetting material of the given width
// into an area of unbounded height.
func (c *Context) child(width float64) *Context {
	return &Context{
		cfg:    c.cfg,
		doc:    c.doc,
		trace:  c.trace,
		size:   Size{Width: width, Height: math.Inf(+1)},
		offset: c.pageNumber() - 1,
		nested: true,
		float:  noFloat,
		refs:   c.refs,
	}
}

// typesetNested typesets blocks into a separate area of the given width.
// The elements are positioned relative to the top left corner of the area.
func (c *Context) typesetNested(blocks []Block, width float64) ([]Element, float64, error) {
	child := c.child(width)
	for _, b := range blocks {
		err := child.typesetBlock(b)
		if err != nil {
			return nil, 0, err
		}
	}
	return child.elements, child.y, nil
}

// pageNumber returns the number of the current page.
func (c *Context) pageNumber() int {
	return len(c.pages) + 1 + c.offset
}

func (c *Context) textWidth() float64 {
	return c.size.Width - c.insets.Horizontal()
}

// limit returns the lowest y coordinate available for content.
func (c *Context) limit() float64 {
	return c.size.Height - c.insets.Bottom - c.footnoteHeight()
}

// available returns the vertical space left on the current page.
func (c *Context) available() float64 {
	return c.limit() - c.y
}

// atTop reports whether nothing has been placed on the current page yet.
func (c *Context) atTop() bool {
	return c.y <= c.insets.Top
}

// place adds an element to the current page.
func (c *Context) place(el Element) {
	el.Extent().PageNo = c.pageNumber()
	c.elements = append(c.elements, el)
}

// emit adds block content to the current page.
func (c *Context) emit(el Element) {
	c.place(el)
	if c.anchor != "" {
		c.refs.record(c.anchor, c.pageNumber())
		c.anchor = ""
	}
}

// pushPage finishes the current page and starts a new one.
func (c *Context) pushPage() error {
	n := c.pageNumber()
	if !c.nested && c.doc != nil {
		err := c.placePageContent(c.doc.Headers, n, true)
		if err != nil {
			return err
		}
		err = c.placePageContent(c.doc.Footers, n, false)
		if err != nil {
			return err
		}
		c.placeFootnotes()
	}

	c.pages = append(c.pages, &Page{
		Number:   n,
		Size:     c.size,
		Insets:   c.insets,
		Elements: c.elements,
	})
	c.trace.Debugf("page %d: %d elements", n, len(c.elements))

	c.elements = nil
	c.notes = nil
	c.y = c.insets.Top
	c.float = noFloat
	return nil
}

// placePageContent places a header above the top inset, or a footer
// below the bottom inset.
func (c *Context) placePageContent(list []PageContent, n int, header bool) error {
	blocks := findPageContent(list, n)
	if len(blocks) == 0 {
		return nil
	}
	els, height, err := c.typesetNested(blocks, c.textWidth())
	if err != nil {
		return err
	}
	dy := c.size.Height - c.insets.Bottom
	if header {
		dy = c.insets.Top - height
	}
	for _, el := range els {
		el.Extent().shift(c.insets.Left, dy)
		c.place(el)
	}
	return nil
}

func (c *Context) footnoteHeight() float64 {
	if len(c.notes) == 0 {
		return 0
	}
	h := c.cfg.FootnoteMarginTop + c.cfg.FootnoteLineWidth + c.cfg.FootnotePaddingTop
	for _, note := range c.notes {
		h += note.height
	}
	return h
}

// pushFootnote reserves space for a footnote on the current page.
func (c *Context) pushFootnote(id string, n *Node) error {
	var blocks []Block
	var ok bool
	if c.doc != nil {
		blocks, ok = c.doc.Footnotes[id]
	}
	if !ok {
		return &MissingValueError{Node: n, Value: "footnote " + strconv.Quote(id)}
	}
	els, height, err := c.typesetNested(blocks, c.textWidth())
	if err != nil {
		return err
	}
	c.notes = append(c.notes, footnote{elements: els, height: height})
	return nil
}

// reserveFootnotes reserves space for the footnotes referenced by a line
// of height lh.  If the line does not fit together with its notes, all
// notes of the line move to the next page.
func (c *Context) reserveFootnotes(ids []string, n *Node, lh float64, bg *background) error {
	k := len(c.notes)
	for _, id := range ids {
		err := c.pushFootnote(id, n)
		if err != nil {
			return err
		}
	}
	if c.available() >= lh || c.atTop() {
		return nil
	}

	c.notes = c.notes[:k]
	err := c.breakPage(bg)
	if err != nil {
		return err
	}
	for _, id := range ids {
		err := c.pushFootnote(id, n)
		if err != nil {
			return err
		}
	}
	return nil
}

// placeFootnotes places the footnotes of the current page above the
// bottom inset, separated from the text by a short rule.
func (c *Context) placeFootnotes() {
	if len(c.notes) == 0 {
		return
	}
	cfg := c.cfg
	y := c.limit() + cfg.FootnoteMarginTop

	sep := &Rule{LineWidth: cfg.FootnoteLineWidth, Color: Black}
	sep.Pos = Position{X: c.insets.Left, Y: y + cfg.FootnoteLineWidth/2}
	sep.Size.Width = cfg.footnoteLineLength()
	c.place(sep)

	y += cfg.FootnoteLineWidth + cfg.FootnotePaddingTop
	for _, note := range c.notes {
		for _, el := range note.elements {
			el.Extent().shift(c.insets.Left, y)
			c.place(el)
		}
		y += note.height
	}
}

// flow places nested material of the given height at the cursor,
// shifted right by dx.  If split is set, the material may be continued
// on the next page, otherwise it is moved to a new page as a whole if
// it does not fit.
func (c *Context) flow(els []Element, height, dx float64, split bool) error {
	base := c.y
	if !split {
		if height > c.available() && !c.atTop() {
			err := c.pushPage()
			if err != nil {
				return err
			}
			base = c.y
		}
		for _, el := range els {
			el.Extent().shift(dx, base)
			c.emit(el)
		}
		c.y = base + height
		return nil
	}

	slices.SortStableFunc(els, func(a, b Element) int {
		return cmp.Compare(a.Extent().Pos.Y, b.Extent().Pos.Y)
	})
	for _, el := range els {
		ext := el.Extent()
		top := base + ext.Pos.Y
		_, isRect := el.(*Rect)
		if !isRect && top+ext.Size.Height > c.limit() && top > c.insets.Top {
			err := c.pushPage()
			if err != nil {
				return err
			}
			base = c.y - ext.Pos.Y
		}
		ext.shift(dx, base)
		c.emit(el)
	}
	c.y = base + height
	return nil
}

// background is a deferred background rectangle.  The rectangle is
// only emitted once the height of the paragraph on the current page
// is known.
type background struct {
	style  *Style
	startY float64
	idx    int // position in the element list of the page
}

func (c *Context) startBackground(s *Style) *background {
	if !s.hasBackground() {
		return nil
	}
	return &background{
		style:  s,
		startY: c.y + s.Margin.Top,
		idx:    len(c.elements),
	}
}

// flushBackground emits the background rectangle, from the start of the
// paragraph (or the top of the page) down to bottom.
func (c *Context) flushBackground(bg *background, bottom float64) {
	if bg == nil {
		return
	}
	s := bg.style
	rect := &Rect{
		Fill:        s.Background,
		Border:      s.Border,
		BorderColor: s.BorderColor,
	}
	rect.Pos = Position{X: c.insets.Left + s.Margin.Left, Y: bg.startY}
	rect.Size = Size{
		Width:  c.textWidth() - s.Margin.Horizontal(),
		Height: bottom - bg.startY,
	}
	rect.PageNo = c.pageNumber()
	c.elements = slices.Insert(c.elements, bg.idx, Element(rect))
}

func (bg *background) restart(c *Context) {
	if bg == nil {
		return
	}
	bg.startY = c.y
	bg.idx = len(c.elements)
}

// breakPage flushes the background and starts a new page.
func (c *Context) breakPage(bg *background) error {
	c.flushBackground(bg, c.y)
	err := c.pushPage()
	if err != nil {
		return err
	}
	bg.restart(c)
	return nil
}
