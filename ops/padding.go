// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ops

import (
	"fmt"
	"slices"
)

// PaddingForm indicates how the values of a Padding were given.
type PaddingForm int

const (
	// PaddingNone is the zero value: no padding on any side.
	PaddingNone PaddingForm = iota

	// PaddingSymmetric uses the same value on both sides of every spatial axis.
	PaddingSymmetric

	// PaddingPair uses one (before, after) pair for every spatial axis.
	PaddingPair

	// PaddingPerAxis gives one (before, after) pair per spatial axis.
	PaddingPerAxis

	// PaddingFlat is the flat list form of convolution attributes: [p], [ph, pw] or [top, left, bottom, right].
	PaddingFlat
)

// Padding of the spatial axes of a convolution, in one of the accepted forms.
// The zero value means no padding.
//
// Use shapeinference.NormalizePadding to convert it to one (before, after) pair per spatial axis.
type Padding struct {
	form   PaddingForm
	values [][]int
}

// PadSymmetric pads every side of every spatial axis with p.
func PadSymmetric(p int) Padding {
	return Padding{form: PaddingSymmetric, values: [][]int{{p}}}
}

// PadPair pads every spatial axis with before and after.
func PadPair(before, after int) Padding {
	return Padding{form: PaddingPair, values: [][]int{{before, after}}}
}

// PadPerAxis takes one (before, after) pair per spatial axis.
func PadPerAxis(pairs ...[]int) Padding {
	values := make([][]int, len(pairs))
	for ii, pair := range pairs {
		values[ii] = slices.Clone(pair)
	}
	return Padding{form: PaddingPerAxis, values: values}
}

// PadFlat takes the flat list form: [p], [ph, pw] (symmetric per axis) or [top, left, bottom, right].
func PadFlat(values ...int) Padding {
	return Padding{form: PaddingFlat, values: [][]int{slices.Clone(values)}}
}

// Form returns how the padding was given.
func (p Padding) Form() PaddingForm { return p.form }

// Values returns the padding values as given. For PaddingPerAxis there is one entry per pair, for the other
// forms there is only one entry. It returns nil for PaddingNone.
func (p Padding) Values() [][]int { return p.values }

// String implements fmt.Stringer.
func (p Padding) String() string {
	switch p.form {
	case PaddingNone:
		return "none"
	case PaddingPerAxis:
		return fmt.Sprintf("%v", p.values)
	default:
		return fmt.Sprintf("%v", p.values[0])
	}
}
