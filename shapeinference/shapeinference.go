// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapeinference calculates the shape resulting from operations and validates their inputs.
//
// It defines one pure function per operator family, named after the operator (ConvTranspose2DOp, Conv2DOp,
// GlobalPool2DOp, PadOp and ShapePreservingOp). They take the input shapes and the typed attributes of the node,
// and either return the output shape, or an *inferror.Error with the reason the node is rejected.
//
// If a required input shape is not known yet, they return an error of kind inferror.UnresolvedInput, which means
// the caller should try again later.
//
// All dimension arithmetic handles symbolic (negative) dimensions: if an operand is symbolic, the resulting
// dimension is shapes.DimUnknown.
package shapeinference

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
)

var (
	// ConvOperations take (data, weight) and optionally a bias, and use ops.ConvAttrs.
	ConvOperations = types.SetWith(
		ops.OpTypeConv2D,
		ops.OpTypeConvTranspose2D,
	)

	// GlobalPoolOperations reduce the spatial axes (H and W) to 1, and use ops.GlobalPoolAttrs.
	GlobalPoolOperations = types.SetWith(
		ops.OpTypeGlobalMaxPool2D,
		ops.OpTypeGlobalAvgPool2D,
	)

	// ShapePreservingOperations output the same dimensions as their single input.
	ShapePreservingOperations = types.SetWith(
		ops.OpTypeRound,
		ops.OpTypeSoftmax,
		ops.OpTypeLogSoftmax,
	)
)

// unresolved returns the error for an input whose shape is not known yet.
func unresolved(opName, inputName string) error {
	return inferror.Errorf(inferror.UnresolvedInput, "%s: %s shape not resolved yet", opName, inputName)
}

// outputDType returns outDType if it is set, otherwise the data dtype.
func outputDType(data shapes.Shape, outDType dtypes.DType) dtypes.DType {
	if outDType == dtypes.InvalidDType {
		return data.DType
	}
	return outDType
}

// ShapePreservingOp returns the shape of element-wise (Round) or axis normalizing (Softmax, LogSoftmax)
// operators: the same dimensions as data. The dtype is outDType, if set, or else the data's.
func ShapePreservingOp(data shapes.Shape, outDType dtypes.DType) (shapes.Shape, error) {
	if !data.Ok() {
		return shapes.Invalid(), unresolved("ShapePreservingOp", "data")
	}
	return data.WithDType(outputDType(data, outDType)), nil
}
