// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())
	require.Equal(t, "(invalid)", invalidShape.String())

	shape0 := Make(dtypes.Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.Ok())
	require.Equal(t, 0, shape0.Rank())
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, uintptr(8), shape0.Memory())

	shape1 := Make(dtypes.Float32, 4, 3, 2)
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, uintptr(4*3*2*4), shape1.Memory())
	require.Equal(t, 2, shape1.Dim(-1))
	require.Equal(t, 4, shape1.Dim(0))
	require.Panics(t, func() { _ = shape1.Dim(3) })
	require.Panics(t, func() { _ = shape1.Dim(-4) })
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())

	require.Panics(t, func() { _ = Make(dtypes.Float32, 2, -1) })
}

func TestDynamicShape(t *testing.T) {
	s := MakeDynamic(dtypes.Int8, DimUnknown, 3, DimUnknown).WithAxisNames("batch", "", "")
	require.True(t, s.IsDynamic())
	require.True(t, s.HasNamedAxes())
	require.Equal(t, "batch", s.AxisName(0))
	require.Equal(t, "", s.AxisName(2))
	require.Equal(t, DimUnknown, s.Size())
	require.Equal(t, uintptr(0), s.Memory())
	require.Equal(t, "(Int8)[batch 3 ?]", s.String())

	// Concrete axes cannot be named.
	require.Panics(t, func() { _ = s.WithAxisNames("batch", "x", "") })
	require.Panics(t, func() { _ = s.WithAxisNames("batch") })

	require.False(t, Make(dtypes.Int8, 1, 3, 1).IsDynamic())
	require.False(t, Make(dtypes.Int8, 1, 3, 1).HasNamedAxes())
}

func TestEqual(t *testing.T) {
	s0 := Make(dtypes.Float32, 2, 3)
	require.True(t, s0.Equal(Make(dtypes.Float32, 2, 3)))
	require.False(t, s0.Equal(Make(dtypes.Float64, 2, 3)))
	require.True(t, s0.EqualDimensions(Make(dtypes.Float64, 2, 3)))
	require.False(t, s0.Equal(Make(dtypes.Float32, 2)))
	require.False(t, s0.Equal(Make(dtypes.Float32, 3, 2)))

	d0 := MakeDynamic(dtypes.Float32, DimUnknown, 3)
	d1 := MakeDynamic(dtypes.Float32, -7, 3)
	require.True(t, d0.Equal(d1), "symbolic dimensions with the same (empty) name are equal")
	require.False(t, d0.Equal(s0))
	require.False(t, d0.WithAxisNames("batch", "").Equal(d1))
	require.True(t, d0.WithAxisNames("batch", "").Equal(d1.WithAxisNames("batch", "")))
}

func TestClone(t *testing.T) {
	s0 := MakeDynamic(dtypes.Float32, DimUnknown, 3).WithAxisNames("batch", "")
	s1 := s0.Clone()
	require.True(t, s0.Equal(s1))
	s1.Dimensions[1] = 5
	s1.AxisNames[0] = "other"
	assert.Equal(t, 3, s0.Dimensions[1])
	assert.Equal(t, "batch", s0.AxisNames[0])

	s2 := s0.WithDType(dtypes.Int32)
	assert.Equal(t, dtypes.Int32, s2.DType)
	assert.Equal(t, dtypes.Float32, s0.DType)
}

func TestDimsCompatible(t *testing.T) {
	assert.True(t, DimsCompatible(3, 3))
	assert.False(t, DimsCompatible(3, 4))
	assert.True(t, DimsCompatible(DimUnknown, 4))
	assert.True(t, DimsCompatible(3, DimUnknown))
	assert.True(t, DimsCompatible(DimUnknown, DimUnknown))
}

func TestChecks(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	require.NoError(t, s.Check(dtypes.Float32, 2, 3))
	require.NoError(t, s.CheckDims(DimUnknown, 3))
	require.Error(t, s.Check(dtypes.Int32, 2, 3))
	require.Error(t, s.CheckDims(2, 4))
	require.Error(t, s.CheckDims(2))
	require.NoError(t, s.CheckRank(2))
	require.Error(t, s.CheckRank(3))

	// Symbolic dimensions are compatible with anything.
	d := MakeDynamic(dtypes.Float32, DimUnknown, 3)
	require.NoError(t, d.CheckDims(2, 3))
	require.NoError(t, s.CheckDims(DimUnknown, DimUnknown))
	require.Error(t, d.CheckDims(2, 4))
	require.NoError(t, d.Check(dtypes.Float32, 7, 3))
}
