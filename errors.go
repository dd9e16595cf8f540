// seehuhn.de/go/typeset - a Knuth-Plass typesetting engine
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package typeset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFeasibleSolution is wrapped by [NoFeasibleSolutionError].
	ErrNoFeasibleSolution = errors.New("no feasible line breaks")

	// ErrMissingMetrics indicates that no font metrics were configured.
	ErrMissingMetrics = errors.New("missing font metrics")

	// ErrUnknownTarget indicates a table of contents entry which refers
	// to a node which was never placed.
	ErrUnknownTarget = errors.New("unknown target")
)

// NoFeasibleSolutionError is returned by [FindBreakPoints] if no
// sequence of feasible lines reaches the end of the paragraph.
type NoFeasibleSolutionError struct {
	Pos       int // the item index where the last active node was lost
	Tolerance float64
}

func (err *NoFeasibleSolutionError) Error() string {
	return fmt.Sprintf("item %d: %s at tolerance %g",
		err.Pos, ErrNoFeasibleSolution, err.Tolerance)
}

func (err *NoFeasibleSolutionError) Unwrap() error {
	return ErrNoFeasibleSolution
}

// MissingValueError indicates that a style value or a font metric needed
// to typeset a node could not be determined.
type MissingValueError struct {
	Node  *Node
	Value string
	Err   error
}

func (err *MissingValueError) Error() string {
	msg := "missing " + err.Value
	if err.Node != nil {
		msg = err.Node.String() + ": " + msg
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *MissingValueError) Unwrap() error {
	return err.Err
}

// StructuralMisuseError indicates content which cannot be placed where
// it occurs, for example a table inside a table cell.
type StructuralMisuseError struct {
	Node   *Node
	Reason string
}

func (err *StructuralMisuseError) Error() string {
	if err.Node == nil {
		return err.Reason
	}
	return err.Node.String() + ": " + err.Reason
}

// InvalidConfigError is returned by [Config.Validate].
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (err *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", err.Field, err.Reason)
}
