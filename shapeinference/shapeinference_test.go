// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
	"github.com/stretchr/testify/require"
)

// Aliases
var (
	I8  = dtypes.Int8
	I32 = dtypes.Int32
	F32 = dtypes.Float32

	MS = shapes.Make
	DS = shapes.MakeDynamic

	Unknown = shapes.DimUnknown
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

// requireKind checks that err is an *inferror.Error of the given kind.
func requireKind(t *testing.T, kind inferror.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	got, ok := inferror.KindOf(err)
	require.Truef(t, ok, "error is not an *inferror.Error: %v", err)
	require.Equalf(t, kind, got, "wrong error kind for %v", err)
}

func TestShapePreservingOp(t *testing.T) {
	for _, axis := range []int{-1, 0, 1, 5} {
		attrs := &ops.AxisAttrs{Axis: axis}
		output, err := ShapePreservingOp(MS(F32, 8, 10), dtypes.InvalidDType)
		require.NoErrorf(t, err, "softmax axis %d", attrs.Axis)
		require.True(t, output.Equal(MS(F32, 8, 10)))
	}

	output, err := ShapePreservingOp(MS(F32, 2, 3), I8)
	require.NoError(t, err)
	require.True(t, output.Equal(MS(I8, 2, 3)))

	named := DS(F32, Unknown, 3).WithAxisNames("batch", "")
	output = must1(ShapePreservingOp(named, dtypes.InvalidDType))
	require.Equal(t, "(Float32)[batch 3]", output.String())

	_, err = ShapePreservingOp(shapes.Invalid(), dtypes.InvalidDType)
	requireKind(t, inferror.UnresolvedInput, err)
	require.True(t, inferror.IsUnresolved(err))

	require.True(t, ShapePreservingOperations.Has(ops.OpTypeSoftmax))
	require.False(t, ShapePreservingOperations.Has(ops.OpTypePad))
}

func TestGlobalPool2DOp(t *testing.T) {
	output, err := GlobalPool2DOp(MS(F32, 2, 3, 5, 7), &ops.GlobalPoolAttrs{Layout: "NCHW"})
	require.NoError(t, err)
	require.True(t, output.Equal(MS(F32, 2, 3, 1, 1)), "got %s", output)

	output = must1(GlobalPool2DOp(MS(I8, 2, 5, 7, 3), &ops.GlobalPoolAttrs{Layout: "NHWC"}))
	require.True(t, output.Equal(MS(I8, 2, 1, 1, 3)), "got %s", output)

	// Default layout is NCHW.
	output = must1(GlobalPool2DOp(MS(F32, 1, 4, 6, 6), &ops.GlobalPoolAttrs{}))
	require.True(t, output.Equal(MS(F32, 1, 4, 1, 1)), "got %s", output)

	// Symbolic spatial axes become concrete.
	dynamic := DS(F32, Unknown, 3, Unknown, Unknown).WithAxisNames("batch", "", "height", "width")
	output = must1(GlobalPool2DOp(dynamic, &ops.GlobalPoolAttrs{}))
	require.Equal(t, "(Float32)[batch 3 1 1]", output.String())

	// Split C axis is fine.
	output = must1(GlobalPool2DOp(MS(F32, 2, 3, 5, 7, 16), &ops.GlobalPoolAttrs{Layout: "NCHW16c"}))
	require.True(t, output.Equal(MS(F32, 2, 3, 1, 1, 16)), "got %s", output)

	_, err = GlobalPool2DOp(MS(F32, 2, 3, 5, 7, 4), &ops.GlobalPoolAttrs{Layout: "NCHW4w"})
	requireKind(t, inferror.LayoutError, err)
	_, err = GlobalPool2DOp(MS(F32, 2, 3, 5), &ops.GlobalPoolAttrs{Layout: "NCH"})
	requireKind(t, inferror.LayoutError, err)
	_, err = GlobalPool2DOp(MS(F32, 2, 3, 5), &ops.GlobalPoolAttrs{Layout: "NCHW"})
	requireKind(t, inferror.ShapeRankMismatch, err)
	_, err = GlobalPool2DOp(MS(F32, 2), &ops.GlobalPoolAttrs{Layout: "H"})
	requireKind(t, inferror.ShapeRankMismatch, err)
	_, err = GlobalPool2DOp(shapes.Invalid(), &ops.GlobalPoolAttrs{})
	requireKind(t, inferror.UnresolvedInput, err)
}

func TestPadOp(t *testing.T) {
	attrs := &ops.PadAttrs{PadWidth: [][]int{{0, 0}, {1, 1}, {2, 2}, {0, 0}}}
	output, err := PadOp(MS(F32, 1, 4, 4, 3), attrs)
	require.NoError(t, err)
	require.True(t, output.Equal(MS(F32, 1, 6, 8, 3)), "got %s", output)

	// Symbolic dimensions are propagated unchanged.
	dynamic := DS(F32, Unknown, 4).WithAxisNames("batch", "")
	output = must1(PadOp(dynamic, &ops.PadAttrs{PadWidth: [][]int{{1, 1}, {0, 3}}, PadMode: ops.PadModeEdge}))
	require.Equal(t, "(Float32)[batch 7]", output.String())

	// OutDType.
	output = must1(PadOp(MS(F32, 2), &ops.PadAttrs{PadWidth: [][]int{{1, 0}}, OutDType: I8}))
	require.True(t, output.Equal(MS(I8, 3)), "got %s", output)

	testCases := []struct {
		name  string
		attrs *ops.PadAttrs
		kind  inferror.Kind
	}{
		{"too few pairs", &ops.PadAttrs{PadWidth: [][]int{{0, 0}, {1, 1}, {2, 2}}}, inferror.ShapeRankMismatch},
		{"too many pairs", &ops.PadAttrs{PadWidth: [][]int{{0, 0}, {1, 1}, {2, 2}, {0, 0}, {0, 0}}}, inferror.ShapeRankMismatch},
		{"pair size", &ops.PadAttrs{PadWidth: [][]int{{0, 0}, {1, 1, 1}, {2, 2}, {0, 0}}}, inferror.ShapeRankMismatch},
		{"negative", &ops.PadAttrs{PadWidth: [][]int{{0, 0}, {-1, 1}, {2, 2}, {0, 0}}}, inferror.InvalidValue},
		{"mode", &ops.PadAttrs{PadWidth: [][]int{{0, 0}, {1, 1}, {2, 2}, {0, 0}}, PadMode: "wrap"}, inferror.InvalidValue},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PadOp(MS(F32, 1, 4, 4, 3), tc.attrs)
			requireKind(t, tc.kind, err)
		})
	}

	_, err = PadOp(shapes.Invalid(), attrs)
	requireKind(t, inferror.UnresolvedInput, err)
}

func TestNormalizePadding(t *testing.T) {
	testCases := []struct {
		name    string
		padding ops.Padding
		want    [][2]int
	}{
		{"none", ops.Padding{}, [][2]int{{0, 0}, {0, 0}}},
		{"symmetric", ops.PadSymmetric(2), [][2]int{{2, 2}, {2, 2}}},
		{"pair", ops.PadPair(1, 3), [][2]int{{1, 3}, {1, 3}}},
		{"per-axis", ops.PadPerAxis([]int{0, 1}, []int{2, 3}), [][2]int{{0, 1}, {2, 3}}},
		{"flat-1", ops.PadFlat(1), [][2]int{{1, 1}, {1, 1}}},
		{"flat-2", ops.PadFlat(1, 2), [][2]int{{1, 1}, {2, 2}}},
		{"flat-4", ops.PadFlat(1, 2, 3, 4), [][2]int{{1, 3}, {2, 4}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePadding(tc.padding, 2)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := NormalizePadding(ops.PadPerAxis([]int{0, 1}), 2)
	requireKind(t, inferror.ShapeRankMismatch, err)
	_, err = NormalizePadding(ops.PadPerAxis([]int{0, 1}, []int{1}), 2)
	requireKind(t, inferror.ShapeRankMismatch, err)
	_, err = NormalizePadding(ops.PadFlat(1, 2, 3), 2)
	requireKind(t, inferror.ShapeRankMismatch, err)
	_, err = NormalizePadding(ops.PadSymmetric(-1), 2)
	requireKind(t, inferror.InvalidValue, err)
	_, err = NormalizePadding(ops.PadPair(0, -2), 2)
	requireKind(t, inferror.InvalidValue, err)
}
