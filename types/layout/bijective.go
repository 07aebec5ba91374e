// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package layout

import (
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
)

// Bijective maps shapes between a source layout (the caller's) and a destination (canonical) layout.
//
// Only pure permutations are supported: every destination axis must be present, whole, in the source,
// and the source can't have axes the destination lacks.
type Bijective struct {
	src, dst Layout

	// forward[j] is the source position of destination axis j, backward[i] is the destination
	// position of source axis i.
	forward, backward []int
}

// NewBijective creates the mapping from src to dst layouts.
// It returns an inferror.LayoutError if src is not a permutation of dst.
func NewBijective(src, dst Layout) (*Bijective, error) {
	if !src.Defined() || !dst.Defined() {
		return nil, inferror.Errorf(inferror.LayoutError, "layout mapping %q -> %q: layouts must be defined", src, dst)
	}
	b := &Bijective{
		src:      src,
		dst:      dst,
		forward:  make([]int, dst.Rank()),
		backward: make([]int, src.Rank()),
	}
	for j, axis := range dst.axes {
		if !axis.IsPrimal() {
			return nil, inferror.Errorf(inferror.LayoutError, "layout mapping %q -> %q: canonical layout can't have minor axis %s", src, dst, axis)
		}
		i := src.IndexOf(axis.Label)
		if i < 0 {
			return nil, inferror.Errorf(inferror.LayoutError, "layout mapping %q -> %q: axis %q is missing in %q", src, dst, axis.Label, src)
		}
		if src.IsSplit(axis.Label) {
			return nil, inferror.Errorf(inferror.LayoutError, "layout mapping %q -> %q: axis %q is split in %q", src, dst, axis.Label, src)
		}
		b.forward[j] = i
		b.backward[i] = j
	}
	for _, axis := range src.axes {
		if !dst.Contains(axis.Label) {
			return nil, inferror.Errorf(inferror.LayoutError, "layout mapping %q -> %q: axis %s of %q is not in %q", src, dst, axis, src, dst)
		}
	}
	return b, nil
}

// Src returns the source layout.
func (b *Bijective) Src() Layout { return b.src }

// Dst returns the destination (canonical) layout.
func (b *Bijective) Dst() Layout { return b.dst }

// ForwardDims permutes dims given in the source layout to the destination layout.
func (b *Bijective) ForwardDims(dims []int) ([]int, error) {
	return permute(dims, b.forward, b.src, b.dst)
}

// BackwardDims permutes dims given in the destination layout back to the source layout.
func (b *Bijective) BackwardDims(dims []int) ([]int, error) {
	return permute(dims, b.backward, b.dst, b.src)
}

// ForwardShape returns the shape transposed from the source layout to the destination layout.
// Axis names travel with their dimensions.
func (b *Bijective) ForwardShape(shape shapes.Shape) (shapes.Shape, error) {
	return permuteShape(shape, b.forward, b.src, b.dst)
}

// BackwardShape returns the shape transposed from the destination layout back to the source layout.
func (b *Bijective) BackwardShape(shape shapes.Shape) (shapes.Shape, error) {
	return permuteShape(shape, b.backward, b.dst, b.src)
}

func permute(dims, perm []int, from, to Layout) ([]int, error) {
	if len(dims) != len(perm) {
		return nil, inferror.Errorf(inferror.ShapeRankMismatch, "layout mapping %q -> %q: got %d dimensions %v, wanted %d", from, to, len(dims), dims, len(perm))
	}
	out := make([]int, len(perm))
	for ii, pos := range perm {
		out[ii] = dims[pos]
	}
	return out, nil
}

func permuteShape(shape shapes.Shape, perm []int, from, to Layout) (shapes.Shape, error) {
	dims, err := permute(shape.Dimensions, perm, from, to)
	if err != nil {
		return shapes.Invalid(), err
	}
	out := shapes.Shape{DType: shape.DType, Dimensions: dims}
	if shape.AxisNames != nil {
		out.AxisNames = make([]string, len(perm))
		for ii, pos := range perm {
			out.AxisNames[ii] = shape.AxisNames[pos]
		}
	}
	return out, nil
}
