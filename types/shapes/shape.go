// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the tensor type shape inference works with.
//
// Shape holds the element data type (DType) and the dimensions of a tensor in a computation
// graph. Dimensions can be concrete (>= 0) or symbolic (negative): a symbolic dimension is
// unknown at inference time, and may optionally be named (e.g. "batch") through AxisNames.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a tensor.
//   - Axis: is the index of a dimension on a multidimensional tensor. Here we refer to a dimension
//     index as "axis" (plural axes), and its size as its dimension.
//   - Dimension: the size of a tensor in one of its axes.
//   - Symbolic dimension: a dimension whose size is unknown at inference time. Shape arithmetic
//     on a symbolic dimension yields a symbolic dimension.
//   - DType: the data type of the unit element in a tensor, from github.com/gomlx/gopjrt/dtypes.
//
// Example: `shapes.Make(dtypes.Float32, 2, 3)` has rank 2, axis 0 has dimension 2 and axis 1
// has dimension 3. `shapes.MakeDynamic(dtypes.Float32, shapes.DimUnknown, 3).WithAxisNames("batch", "")`
// has a symbolic batch axis.
//
// Shape is treated as an immutable value: functions that transform a shape return a new one.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
)

// DimUnknown is the dimension value used for symbolic (unknown) axes.
// Any negative dimension is considered symbolic, but derived dimensions are always set to DimUnknown.
const DimUnknown = -1

// Shape represents the type of a tensor: its DType and dimensions.
//
// Use Make or MakeDynamic to create a new shape. The zero value is an invalid shape, used to represent
// a type not yet resolved.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int

	// AxisNames optionally names symbolic axes. If not nil, it has one entry per axis, and "" means unnamed.
	AxisNames []string
}

// Make returns a Shape with the given concrete dimensions.
// It panics if any dimension is negative: use MakeDynamic for symbolic dimensions.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim < 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with a negative dimension, use MakeDynamic instead", s)
		}
	}
	return s
}

// MakeDynamic returns a Shape where negative dimensions are symbolic.
func MakeDynamic(dtype dtypes.DType, dimensions ...int) Shape {
	return Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
}

// Invalid returns an invalid shape, used for types that are not resolved yet.
//
// Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: dtypes.InvalidDType}
}

// Ok returns whether this is a valid (resolved) Shape.
func (s Shape) Ok() bool { return s.DType != dtypes.InvalidDType }

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// Dim returns the dimension of the given axis. axis can take negative numbers, in which
// case it counts as starting from the end -- so axis=-1 refers to the last axis.
// Like with a slice indexing, it panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s)
	}
	return s.Dimensions[adjustedAxis]
}

// IsSymbolic returns whether the dimension value is symbolic (unknown at inference time).
func IsSymbolic(dim int) bool { return dim < 0 }

// IsDynamic returns whether any of the dimensions is symbolic.
func (s Shape) IsDynamic() bool {
	return slices.ContainsFunc(s.Dimensions, IsSymbolic)
}

// AxisName returns the name of the axis, or "" if it is not named.
func (s Shape) AxisName(axis int) string {
	if s.AxisNames == nil {
		return ""
	}
	return s.AxisNames[axis]
}

// HasNamedAxes returns whether any of the axes is named.
func (s Shape) HasNamedAxes() bool {
	return slices.ContainsFunc(s.AxisNames, func(name string) bool { return name != "" })
}

// WithAxisNames returns a copy of the shape with the given axis names. Named axes must be symbolic.
// It panics if the number of names doesn't match the rank, or if a concrete axis is named.
func (s Shape) WithAxisNames(names ...string) Shape {
	if len(names) != s.Rank() {
		exceptions.Panicf("Shape.WithAxisNames(%q): %d names given for shape %s of rank %d", names, len(names), s, s.Rank())
	}
	s2 := s.Clone()
	for axis, name := range names {
		if name != "" && !IsSymbolic(s.Dimensions[axis]) {
			exceptions.Panicf("Shape.WithAxisNames(%q): axis %d of shape %s is concrete, only symbolic axes can be named", names, axis, s)
		}
	}
	s2.AxisNames = slices.Clone(names)
	return s2
}

// WithDType returns a copy of the shape with the given dtype.
func (s Shape) WithDType(dtype dtypes.DType) Shape {
	s2 := s.Clone()
	s2.DType = dtype
	return s2
}

// String implements stringer, pretty-prints the shape. Symbolic axes are printed by name or as "?".
func (s Shape) String() string {
	if !s.Ok() {
		return "(invalid)"
	}
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	parts := make([]string, s.Rank())
	for axis, dim := range s.Dimensions {
		switch {
		case !IsSymbolic(dim):
			parts[axis] = fmt.Sprintf("%d", dim)
		case s.AxisName(axis) != "":
			parts[axis] = s.AxisName(axis)
		default:
			parts[axis] = "?"
		}
	}
	return fmt.Sprintf("(%s)[%s]", s.DType, strings.Join(parts, " "))
}

// Size returns the number of elements of DType needed for this shape. It's the product of all dimensions.
// It returns DimUnknown if any dimension is symbolic.
func (s Shape) Size() (size int) {
	size = 1
	for _, d := range s.Dimensions {
		if IsSymbolic(d) {
			return DimUnknown
		}
		size *= d
	}
	return
}

// Memory returns the memory used to store an array of the given shape, the same as the size in bytes.
// It returns 0 for shapes with symbolic dimensions.
func (s Shape) Memory() uintptr {
	size := s.Size()
	if size < 0 {
		return 0
	}
	return s.DType.Memory() * uintptr(size)
}

// Equal compares two shapes for equality: dtype, dimensions and axis names are compared.
func (s Shape) Equal(s2 Shape) bool {
	if s.DType != s2.DType {
		return false
	}
	return s.EqualDimensions(s2)
}

// EqualDimensions compares two shapes for equality of dimensions and axis names. DTypes can be different.
func (s Shape) EqualDimensions(s2 Shape) bool {
	if s.Rank() != s2.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		dim2 := s2.Dimensions[axis]
		if IsSymbolic(dim) != IsSymbolic(dim2) {
			return false
		}
		if !IsSymbolic(dim) && dim != dim2 {
			return false
		}
		if s.AxisName(axis) != s2.AxisName(axis) {
			return false
		}
	}
	return true
}

// DimsCompatible returns whether two dimensions may refer to the same size: they are equal, or at least
// one of them is symbolic (in which case the comparison is deferred to runtime).
func DimsCompatible(dim1, dim2 int) bool {
	return dim1 == dim2 || IsSymbolic(dim1) || IsSymbolic(dim2)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Dimensions = slices.Clone(s.Dimensions)
	s2.AxisNames = slices.Clone(s.AxisNames)
	return
}
