// Package hyphen finds hyphenation points using TeX hyphenation patterns.
package hyphen

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/speedata/hyphenation"
	"golang.org/x/text/language"
)

// Hyphenator splits words at the hyphenation points found by a
// set of patterns.  It implements the [typeset.Hyphenator] interface.
//
// [typeset.Hyphenator]: seehuhn.de/go/typeset.Hyphenator
type Hyphenator struct {
	lang *hyphenation.Lang
}

// New reads hyphenation patterns in the format used by the hyph-utf8
// package.
func New(r io.Reader) (*Hyphenator, error) {
	l, err := hyphenation.New(r)
	if err != nil {
		return nil, fmt.Errorf("hyphenation patterns: %w", err)
	}
	return &Hyphenator{lang: l}, nil
}

// NewFromFile reads hyphenation patterns from a file.
func NewFromFile(fileName string) (*Hyphenator, error) {
	fd, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return New(fd)
}

// Hyphenate splits a word into fragments.  A word without hyphenation
// points is returned as a single fragment.
func (h *Hyphenator) Hyphenate(word string) []string {
	return splitAt(word, h.lang.Hyphenate(word))
}

// splitAt splits a word at the given rune positions.  Positions outside
// the word, as well as duplicates, are ignored.
func splitAt(word string, pos []int) []string {
	runes := []rune(word)
	var cuts []int
	for _, p := range pos {
		if p > 0 && p < len(runes) {
			cuts = append(cuts, p)
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	res := make([]string, 0, len(cuts)+1)
	start := 0
	for _, p := range cuts {
		res = append(res, string(runes[start:p]))
		start = p
	}
	res = append(res, string(runes[start:]))
	return res
}

// Registry selects hyphenation patterns by language.  Patterns are only
// read when they are first used.
type Registry struct {
	mu      sync.Mutex
	tags    []language.Tag
	loaders []func() (io.ReadCloser, error)
	cache   map[language.Tag]*Hyphenator
	matcher language.Matcher
}

// Register makes patterns available for the given language.
func (reg *Registry) Register(tag language.Tag, open func() (io.ReadCloser, error)) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.tags = append(reg.tags, tag)
	reg.loaders = append(reg.loaders, open)
	reg.matcher = nil
}

// RegisterFile makes the patterns in the given file available for a
// language.
func (reg *Registry) RegisterFile(tag language.Tag, fileName string) {
	reg.Register(tag, func() (io.ReadCloser, error) {
		return os.Open(fileName)
	})
}

// Get returns a hyphenator for the registered language which best
// matches tag.  If no language matches, Get returns nil.
func (reg *Registry) Get(tag language.Tag) (*Hyphenator, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if len(reg.tags) == 0 {
		return nil, nil
	}
	if reg.matcher == nil {
		reg.matcher = language.NewMatcher(reg.tags)
	}
	_, idx, conf := reg.matcher.Match(tag)
	if conf == language.No {
		return nil, nil
	}
	best := reg.tags[idx]
	if h, ok := reg.cache[best]; ok {
		return h, nil
	}

	r, err := reg.loaders[idx]()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	h, err := New(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", best, err)
	}
	if reg.cache == nil {
		reg.cache = make(map[language.Tag]*Hyphenator)
	}
	reg.cache[best] = h
	return h, nil
}
