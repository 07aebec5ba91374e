// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
)

// PadModes accepted by PadOp. The empty mode defaults to ops.PadModeConstant.
var PadModes = types.SetWith(ops.PadModeConstant, ops.PadModeEdge, ops.PadModeReflect)

// PadOp returns the output shape of Pad: each axis of data grows by its (before, after) pair in attrs.PadWidth.
//
// Symbolic dimensions are kept unchanged, as are their names.
func PadOp(data shapes.Shape, attrs *ops.PadAttrs) (shapes.Shape, error) {
	errorf := func(kind inferror.Kind, format string, args ...any) (shapes.Shape, error) {
		return shapes.Invalid(), inferror.Errorf(kind, "PadOp: "+format, args...)
	}
	if !data.Ok() {
		return shapes.Invalid(), unresolved("PadOp", "data")
	}
	if attrs.PadMode != "" && !PadModes.Has(attrs.PadMode) {
		return errorf(inferror.InvalidValue, "pad_mode %q is not supported, it must be one of %q, %q or %q",
			attrs.PadMode, ops.PadModeConstant, ops.PadModeEdge, ops.PadModeReflect)
	}
	if len(attrs.PadWidth) != data.Rank() {
		return errorf(inferror.ShapeRankMismatch, "pad_width %v has %d pairs, but data %s has rank %d",
			attrs.PadWidth, len(attrs.PadWidth), data, data.Rank())
	}
	output := data.WithDType(outputDType(data, attrs.OutDType))
	for axis, pair := range attrs.PadWidth {
		if len(pair) != 2 {
			return errorf(inferror.ShapeRankMismatch, "pad_width[%d]=%v must have 2 values (before and after)", axis, pair)
		}
		if pair[0] < 0 || pair[1] < 0 {
			return errorf(inferror.InvalidValue, "pad_width[%d]=%v must be non-negative", axis, pair)
		}
		if shapes.IsSymbolic(data.Dimensions[axis]) {
			continue
		}
		output.Dimensions[axis] = data.Dimensions[axis] + pair[0] + pair[1]
	}
	return output, nil
}
