package typeset

import (
	"fmt"
	"math"
)

// BreakPoint is the index of the item where a line ends.
type BreakPoint struct {
	Index int
}

// LineBreakingResult describes how a paragraph is broken into lines.
type LineBreakingResult struct {
	Breaks   []BreakPoint
	Lines    int
	Demerits float64

	// Quality is the quality level at which the breaks were found.
	Quality int

	// FirstFit is set if the breaks were found by the greedy fallback.
	FirstFit bool
}

// FindBreakPoints computes the sequence of breakpoints with the fewest
// total demerits, using the algorithm of Knuth and Plass.
//
// Lines whose adjustment ratio exceeds tolerance are not considered.
// If no sequence of feasible lines reaches the end of the paragraph,
// a *NoFeasibleSolutionError is returned.
func FindBreakPoints(p *Paragraph, tolerance, flaggedDemerit, fitnessDemerit float64, looseness int) (*LineBreakingResult, error) {
	if len(p.Items) == 0 {
		return &LineBreakingResult{}, nil
	}
	br := &knuthPlass{
		α:         flaggedDemerit,
		γ:         fitnessDemerit,
		ρ:         tolerance,
		q:         looseness,
		lineWidth: p.lineWidth,
		items:     p.items(),
	}
	return br.Run()
}

type knuthPlass struct {
	α float64 // extra demerits for consecutive flagged breaks
	γ float64 // extra demerits for fitness classes that are more than 1 apart
	ρ float64 // upper bound on the adjustment ratios
	q int     // looseness parameter (try to in-/decrease number of lines by q)

	lineWidth func(lineNo int) float64

	items []Item

	// nodes is the arena of all nodes created during the search.
	// Nodes refer to their predecessor by index; -1 marks the start.
	nodes []activeNode

	// active holds indices into nodes, sorted by line number.
	active []int

	total glueSum
}

type activeNode struct {
	pos           int
	line          int
	fitness       fitnessClass
	flagged       bool
	total         glueSum
	totalDemerits float64
	prev          int
}

func (br *knuthPlass) Run() (*LineBreakingResult, error) {
	br.nodes = append(br.nodes[:0], activeNode{prev: -1, fitness: fitnessDecent})
	br.active = append(br.active[:0], 0)
	br.total = glueSum{}

	for b := 0; b < len(br.items); b++ {
		if isValidBreakpoint(br.items, b) {
			pb, flagged, mandatory := br.penalty(b)

			aIdx := 0
			for aIdx < len(br.active) { // loop over all line numbers
				var Ac [4]int
				Dc := [4]float64{math.Inf(+1), math.Inf(+1), math.Inf(+1), math.Inf(+1)}
				D := math.Inf(+1)

				// loop over all active nodes which share the same line number
				for {
					ai := br.active[aIdx]
					a := &br.nodes[ai]

					r := br.adjustmentRatio(a, b)
					if r < -1 || mandatory {
						// remove a from the active list
						copy(br.active[aIdx:], br.active[aIdx+1:])
						br.active = br.active[:len(br.active)-1]
					} else {
						// leave a in the active list, skip to next node
						aIdx++
					}

					if r >= -1 && (r <= br.ρ || mandatory) {
						c := getFitnessClass(r)
						d := br.computeDemerits(r, pb, mandatory, a, flagged, c)
						if d < Dc[c+1] {
							Ac[c+1] = ai
							Dc[c+1] = d
							if d < D {
								D = d
							}
						}
					}

					if aIdx >= len(br.active) || br.nodes[br.active[aIdx]].line > a.line {
						break
					}
				}

				if D < math.Inf(+1) {
					totalAfterB := br.totalAfter(b)
					for c := fitnessTight; c <= fitnessVeryLoose; c++ {
						if Dc[c+1] > D+br.γ {
							continue
						}
						br.nodes = append(br.nodes, activeNode{
							pos:           b,
							line:          br.nodes[Ac[c+1]].line + 1,
							fitness:       c,
							flagged:       flagged,
							total:         totalAfterB,
							totalDemerits: Dc[c+1],
							prev:          Ac[c+1],
						})
						br.active = append(br.active, 0)
						copy(br.active[aIdx+1:], br.active[aIdx:])
						br.active[aIdx] = len(br.nodes) - 1
						aIdx++
					}
				}
			}
			if len(br.active) == 0 {
				return nil, &NoFeasibleSolutionError{Pos: b, Tolerance: br.ρ}
			}
		}

		switch h := br.items[b].(type) {
		case Box:
			br.total.Width += h.Width
		case Glue:
			br.total.addGlue(h)
		}
	}

	// Choose the active node with the fewest total demerits.
	bestA := br.active[0]
	for _, ai := range br.active[1:] {
		if br.nodes[ai].totalDemerits < br.nodes[bestA].totalDemerits {
			bestA = ai
		}
	}
	k := br.nodes[bestA].line

	if br.q != 0 { // choose the appropriate active node
		s := 0
		d := br.nodes[bestA].totalDemerits
		for _, ai := range br.active {
			a := &br.nodes[ai]
			delta := a.line - k
			if br.q <= delta && delta < s || s < delta && delta <= br.q {
				s = delta
				d = a.totalDemerits
				bestA = ai
			} else if delta == s && a.totalDemerits < d {
				d = a.totalDemerits
				bestA = ai
			}
		}
		k = br.nodes[bestA].line
	}

	// use the chosen node to determine the optimal breakpoint sequence
	res := &LineBreakingResult{
		Breaks:   make([]BreakPoint, k),
		Lines:    k,
		Demerits: br.nodes[bestA].totalDemerits,
	}
	for ai := bestA; ai >= 0 && br.nodes[ai].line > 0; ai = br.nodes[ai].prev {
		a := &br.nodes[ai]
		res.Breaks[a.line-1] = BreakPoint{Index: a.pos}
	}
	return res, nil
}

// totalAfter returns the running totals for a line which starts after a
// break at b.  Glue and penalties directly after the break are discarded.
func (br *knuthPlass) totalAfter(b int) glueSum {
	total := br.total
afterBLoop:
	for i := b; i < len(br.items); i++ {
		switch h := br.items[i].(type) {
		case Box:
			break afterBLoop
		case Glue:
			total.addGlue(h)
		case Penalty:
			if i > b && h.IsMandatory() {
				break afterBLoop
			}
		}
	}
	return total
}

func (br *knuthPlass) adjustmentRatio(a *activeNode, b int) float64 {
	line := br.total.minus(a.total)
	if p, isPenalty := br.items[b].(Penalty); isPenalty {
		line.Width += p.Width
	}
	return line.adjustmentRatio(br.lineWidth(a.line + 1))
}

func (br *knuthPlass) computeDemerits(r float64, pb float64, mandatory bool, a *activeNode, flagged bool, c fitnessClass) float64 {
	var d float64
	l := 10 + badness(r)
	if mandatory {
		d = pow2(l)
	} else if pb >= 0 {
		d = pow2(l + pb)
	} else {
		d = pow2(l) - pow2(pb)
	}
	if a.flagged && flagged {
		d += br.α
	}
	if abs(c-a.fitness) > 1 {
		d += br.γ
	}
	d += a.totalDemerits
	return d
}

func (br *knuthPlass) penalty(pos int) (cost float64, flagged, mandatory bool) {
	if p, isPenalty := br.items[pos].(Penalty); isPenalty {
		return p.Cost, p.Flagged, p.IsMandatory()
	}
	return 0, false, false
}

// badness returns 100|r|³, capped at 10000.
func badness(r float64) float64 {
	b := 100 * pow3(math.Abs(r))
	if b > 10000 || math.IsNaN(b) {
		return 10000
	}
	return b
}

func pow2(x float64) float64 {
	return x * x
}

func pow3(x float64) float64 {
	return x * x * x
}

type fitnessClass int

const (
	fitnessTight     fitnessClass = -1
	fitnessDecent    fitnessClass = 0
	fitnessLoose     fitnessClass = 1
	fitnessVeryLoose fitnessClass = 2
)

func (b fitnessClass) String() string {
	switch b {
	case fitnessVeryLoose:
		return "very loose"
	case fitnessLoose:
		return "loose"
	case fitnessDecent:
		return "decent"
	case fitnessTight:
		return "tight"
	default:
		return fmt.Sprintf("fitnessClass(%d)", b)
	}
}

func getFitnessClass(r float64) fitnessClass {
	var c fitnessClass
	if r < -0.5 {
		c = fitnessTight
	} else if r <= 0.5 {
		c = fitnessDecent
	} else if r < 1.0 {
		c = fitnessLoose
	} else {
		c = fitnessVeryLoose
	}
	return c
}

func abs(x fitnessClass) fitnessClass {
	if x < 0 {
		return -x
	}
	return x
}
