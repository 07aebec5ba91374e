// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package layout describes how the axes of a tensor are ordered, e.g. "NCHW" or "NHWC", and
// maps shapes between a caller's layout and the canonical layout an operator reasons in.
//
// A layout is a string of axes. An upper-case letter is a primal axis ("N", "C", "H", "W", "I", "O", ...).
// A lower-case letter, with an optional factor prefix, is a minor (split) axis of the primal with the same
// letter: "NCHW16c" has the channels split into C (outer) and 16c (inner).
package layout

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/shapeinfer/types/inferror"
)

// Common canonical layouts.
const (
	NCHW = "NCHW"
	NHWC = "NHWC"
	OIHW = "OIHW"
	IOHW = "IOHW"
	HWIO = "HWIO"
)

// Axis of a Layout.
type Axis struct {
	// Label is the axis letter: upper-case for primal axes, lower-case for minor axes.
	Label rune

	// Factor is the split factor of a minor axis, 0 if not given. Always 0 for primal axes.
	Factor int
}

// IsPrimal returns whether the axis is a primal (upper-case) axis.
func (a Axis) IsPrimal() bool { return unicode.IsUpper(a.Label) }

// Primal returns the primal label this axis refers to.
func (a Axis) Primal() rune { return unicode.ToUpper(a.Label) }

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a.Factor > 0 {
		return strconv.Itoa(a.Factor) + string(a.Label)
	}
	return string(a.Label)
}

// Layout is an ordered list of axes. The zero value is the empty (undefined) layout.
type Layout struct {
	name string
	axes []Axis
}

// Parse a layout string like "NCHW" or "NCHW16c".
//
// It returns an inferror.LayoutError if the string is malformed, if an axis is repeated, if a factor
// is given to a primal axis or if a minor axis has no corresponding primal axis.
func Parse(s string) (Layout, error) {
	l := Layout{name: s}
	factor := -1
	seen := make(map[rune]bool)
	for pos, r := range s {
		if unicode.IsDigit(r) {
			if factor < 0 {
				factor = 0
			}
			factor = factor*10 + int(r-'0')
			continue
		}
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return Layout{}, inferror.Errorf(inferror.LayoutError, "layout %q: invalid character %q at position %d", s, r, pos)
		}
		axis := Axis{Label: r}
		if factor >= 0 {
			if axis.IsPrimal() {
				return Layout{}, inferror.Errorf(inferror.LayoutError, "layout %q: primal axis %q cannot have a factor", s, r)
			}
			if factor == 0 {
				return Layout{}, inferror.Errorf(inferror.LayoutError, "layout %q: minor axis %q has factor 0", s, r)
			}
			axis.Factor = factor
		}
		factor = -1
		if seen[r] {
			return Layout{}, inferror.Errorf(inferror.LayoutError, "layout %q: axis %q repeated", s, r)
		}
		seen[r] = true
		l.axes = append(l.axes, axis)
	}
	if factor >= 0 {
		return Layout{}, inferror.Errorf(inferror.LayoutError, "layout %q: dangling factor at the end", s)
	}
	for _, axis := range l.axes {
		if !axis.IsPrimal() && !seen[axis.Primal()] {
			return Layout{}, inferror.Errorf(inferror.LayoutError, "layout %q: minor axis %q has no primal axis %q", s, axis.Label, axis.Primal())
		}
	}
	return l, nil
}

// MustParse parses the layout and panics if it fails. Use it for layout literals.
func MustParse(s string) Layout {
	l, err := Parse(s)
	if err != nil {
		exceptions.Panicf("layout.MustParse(%q): %v", s, err)
	}
	return l
}

// Defined returns whether the layout has any axes.
func (l Layout) Defined() bool { return len(l.axes) > 0 }

// Rank returns the number of axes in the layout.
func (l Layout) Rank() int { return len(l.axes) }

// Axes returns the axes of the layout. The returned slice must not be modified.
func (l Layout) Axes() []Axis { return l.axes }

// IndexOf returns the position of the axis with the given label, or -1 if not present.
func (l Layout) IndexOf(label rune) int {
	for ii, axis := range l.axes {
		if axis.Label == label {
			return ii
		}
	}
	return -1
}

// Contains returns whether the layout has an axis with the given label.
func (l Layout) Contains(label rune) bool { return l.IndexOf(label) >= 0 }

// IsSplit returns whether the primal axis given by label is split: there is a minor axis for it.
func (l Layout) IsSplit(label rune) bool {
	return l.Contains(unicode.ToLower(label))
}

// String returns the layout as a string, as given to Parse.
func (l Layout) String() string {
	if l.name != "" {
		return l.name
	}
	var sb strings.Builder
	for _, axis := range l.axes {
		sb.WriteString(axis.String())
	}
	return sb.String()
}
