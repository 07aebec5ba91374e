// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package relations

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/shapeinference"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	F32 = dtypes.Float32
	I32 = dtypes.Int32
	MS  = shapes.Make
	DS  = shapes.MakeDynamic
)

func TestReporter(t *testing.T) {
	r := NewReporter([]shapes.Shape{MS(F32, 2, 3), shapes.Invalid(), DS(F32, shapes.DimUnknown, 3)})
	assert.Equal(t, 3, r.NumSlots())

	// Binding an unresolved slot.
	require.NoError(t, r.Assign(1, MS(F32, 2, 3)))
	assert.Equal(t, []int{1}, r.Bound())
	assert.True(t, r.Type(1).Equal(MS(F32, 2, 3)))

	// Asserting on resolved slots.
	require.NoError(t, r.Assign(0, MS(F32, 2, 3)))
	require.NoError(t, r.Assign(2, MS(F32, 7, 3)))
	assert.True(t, r.Type(2).IsDynamic(), "resolved value is kept")
	err := r.Assign(0, MS(F32, 2, 4))
	assert.True(t, inferror.Is(err, inferror.ConfigMismatch), "got %v", err)
	err = r.Assign(0, MS(I32, 2, 3))
	assert.True(t, inferror.Is(err, inferror.ConfigMismatch), "got %v", err)
	err = r.Assign(0, MS(F32, 2, 3, 1))
	assert.True(t, inferror.Is(err, inferror.ConfigMismatch), "got %v", err)
	assert.Equal(t, []int{1}, r.Bound())

	assert.True(t, r.AssertEqual(0, 1))
	assert.True(t, r.AssertEqual(0, 2))

	// Programmer errors.
	assert.True(t, inferror.Is(r.Assign(3, MS(F32)), inferror.Internal))
	assert.True(t, inferror.Is(r.Assign(0, shapes.Invalid()), inferror.Internal))

	// The reporter works on a copy.
	input := []shapes.Shape{shapes.Invalid()}
	r = NewReporter(input)
	require.NoError(t, r.Assign(0, MS(F32, 1)))
	assert.False(t, input[0].Ok())
	assert.True(t, r.Type(0).Ok())
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	for _, op := range ops.Operators() {
		rule, err := registry.Lookup(op)
		require.NoErrorf(t, err, "operator %s", op)
		require.NotNilf(t, rule.Rel, "operator %s", op)
		require.Equal(t, 1, rule.NumOutputs)
	}
	_, err := registry.Lookup(ops.OpTypeParameter)
	require.True(t, inferror.Is(err, inferror.Internal))

	rule, err := registry.Lookup(ops.OpTypeConvTranspose2D)
	require.NoError(t, err)
	require.NoError(t, rule.CheckArity(ops.OpTypeConvTranspose2D, 2, 1))
	require.NoError(t, rule.CheckArity(ops.OpTypeConvTranspose2D, 3, 1))
	require.Error(t, rule.CheckArity(ops.OpTypeConvTranspose2D, 1, 1))
	require.Error(t, rule.CheckArity(ops.OpTypeConvTranspose2D, 4, 1))
	require.Error(t, rule.CheckArity(ops.OpTypeConvTranspose2D, 2, 2))
	require.False(t, rule.VariadicOutputs)

	// Shape preserving operators accept any number of outputs.
	for op := range shapeinference.ShapePreservingOperations {
		rule, err = registry.Lookup(op)
		require.NoError(t, err)
		require.Truef(t, rule.VariadicOutputs, "operator %s", op)
		require.NoError(t, rule.CheckArity(op, 1, 1))
		require.NoError(t, rule.CheckArity(op, 1, 3))
		require.Error(t, rule.CheckArity(op, 1, 0))
		require.Error(t, rule.CheckArity(op, 2, 1))
	}
}

// run executes the rule of op with the given slots.
func run(t *testing.T, op ops.OpType, attrs ops.Attributes, numInputs int, slots ...shapes.Shape) (*Reporter, error) {
	t.Helper()
	rule, err := NewRegistry().Lookup(op)
	require.NoError(t, err)
	reporter := NewReporter(slots)
	return reporter, rule.Rel(slots, numInputs, attrs, reporter)
}

func TestConvRules(t *testing.T) {
	// Weight and bias are bound from the attributes.
	attrs := &ops.ConvAttrs{Strides: []int{2, 2}, KernelSize: []int{3, 3}, Channels: 8}
	reporter, err := run(t, ops.OpTypeConvTranspose2D, attrs, 3,
		MS(F32, 1, 4, 4, 4), shapes.Invalid(), shapes.Invalid(), shapes.Invalid())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, reporter.Bound())
	assert.True(t, reporter.Type(1).Equal(MS(F32, 4, 8, 3, 3)), "got %s", reporter.Type(1))
	assert.True(t, reporter.Type(2).Equal(MS(F32, 8)), "got %s", reporter.Type(2))
	assert.True(t, reporter.Type(3).Equal(MS(F32, 1, 8, 9, 9)), "got %s", reporter.Type(3))

	// Bias with the wrong number of channels.
	_, err = run(t, ops.OpTypeConvTranspose2D, attrs, 3,
		MS(F32, 1, 4, 4, 4), shapes.Invalid(), MS(F32, 16), shapes.Invalid())
	assert.True(t, inferror.Is(err, inferror.ConfigMismatch), "got %v", err)

	// Bias must be a vector.
	_, err = run(t, ops.OpTypeConvTranspose2D, attrs, 3,
		MS(F32, 1, 4, 4, 4), shapes.Invalid(), MS(F32, 2, 4), shapes.Invalid())
	assert.True(t, inferror.Is(err, inferror.ShapeRankMismatch), "got %v", err)
	assert.ErrorContains(t, err, "ConvTranspose2D")

	// Quantized bias keeps its dtype, output in NHWC.
	reporter, err = run(t, ops.OpTypeConv2D, &ops.ConvAttrs{DataLayout: "NHWC", KernelLayout: "HWIO", OutDType: I32}, 3,
		MS(dtypes.Int8, 1, 5, 5, 3), MS(dtypes.Int8, 3, 3, 3, 4), MS(I32, 4), shapes.Invalid())
	require.NoError(t, err)
	assert.Equal(t, []int{3}, reporter.Bound())
	assert.True(t, reporter.Type(3).Equal(MS(I32, 1, 3, 3, 4)), "got %s", reporter.Type(3))

	// Channels 16 vs weight-derived 32.
	_, err = run(t, ops.OpTypeConvTranspose2D, &ops.ConvAttrs{Channels: 16}, 2,
		MS(F32, 1, 8, 4, 4), MS(F32, 8, 32, 3, 3), shapes.Invalid())
	assert.True(t, inferror.Is(err, inferror.ConfigMismatch), "got %v", err)

	// Wrong attributes type.
	_, err = run(t, ops.OpTypeConv2D, &ops.PadAttrs{}, 2, MS(F32, 1, 8, 4, 4), MS(F32, 8, 8, 3, 3), shapes.Invalid())
	assert.True(t, inferror.Is(err, inferror.Internal), "got %v", err)
	_, err = run(t, ops.OpTypeConv2D, nil, 2, MS(F32, 1, 8, 4, 4), MS(F32, 8, 8, 3, 3), shapes.Invalid())
	assert.True(t, inferror.Is(err, inferror.Internal), "got %v", err)
}

func TestOtherRules(t *testing.T) {
	reporter, err := run(t, ops.OpTypeGlobalAvgPool2D, &ops.GlobalPoolAttrs{}, 1, MS(F32, 2, 3, 5, 7), shapes.Invalid())
	require.NoError(t, err)
	assert.True(t, reporter.Type(1).Equal(MS(F32, 2, 3, 1, 1)))

	reporter, err = run(t, ops.OpTypePad, &ops.PadAttrs{PadWidth: [][]int{{0, 0}, {1, 1}, {2, 2}, {0, 0}}}, 1,
		MS(F32, 1, 4, 4, 3), shapes.Invalid())
	require.NoError(t, err)
	assert.True(t, reporter.Type(1).Equal(MS(F32, 1, 6, 8, 3)))

	reporter, err = run(t, ops.OpTypeRound, &ops.UnaryAttrs{OutDType: I32}, 1, MS(F32, 2, 2), shapes.Invalid())
	require.NoError(t, err)
	assert.True(t, reporter.Type(1).Equal(MS(I32, 2, 2)))

	reporter, err = run(t, ops.OpTypeRound, &ops.UnaryAttrs{}, 1, MS(F32, 2, 2), shapes.Invalid(), shapes.Invalid())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, reporter.Bound())
	assert.True(t, reporter.Type(1).Equal(MS(F32, 2, 2)))
	assert.True(t, reporter.Type(2).Equal(MS(F32, 2, 2)))

	// Every output slot gets the input type.
	reporter, err = run(t, ops.OpTypeLogSoftmax, &ops.AxisAttrs{Axis: -1}, 1, MS(F32, 8, 10), shapes.Invalid(), shapes.Invalid())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, reporter.Bound())
	assert.True(t, reporter.Type(2).Equal(MS(F32, 8, 10)))

	_, err = run(t, ops.OpTypeSoftmax, &ops.AxisAttrs{}, 1, shapes.Invalid(), shapes.Invalid())
	assert.True(t, inferror.IsUnresolved(err))

	// A resolved output must agree.
	_, err = run(t, ops.OpTypeSoftmax, &ops.AxisAttrs{}, 1, MS(F32, 8, 10), MS(F32, 8, 11))
	assert.True(t, inferror.Is(err, inferror.ConfigMismatch))
}
