// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package relations

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/shapeinference"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
)

// convOpFn is the signature of shapeinference.Conv2DOp and shapeinference.ConvTranspose2DOp.
type convOpFn func(data, weight shapes.Shape, attrs *ops.ConvAttrs) (output, weightShape shapes.Shape, err error)

// convRel binds the output, the weight and, if given, the bias of a convolution.
// Inputs are (data, weight[, bias]).
func convRel(op ops.OpType, convOp convOpFn) func([]shapes.Shape, int, *ops.ConvAttrs, *Reporter) error {
	return func(types []shapes.Shape, numInputs int, attrs *ops.ConvAttrs, reporter *Reporter) error {
		output, weight, err := convOp(types[0], types[1], attrs)
		if err != nil {
			return err
		}
		if err = reporter.Assign(1, weight); err != nil {
			return err
		}
		if numInputs == 3 {
			biasDType := output.DType
			if bias := types[2]; bias.Ok() {
				if err = bias.CheckRank(1); err != nil {
					return inferror.Wrapf(inferror.ShapeRankMismatch, err, "%s: bias must be a vector of output channels", op)
				}
				biasDType = bias.DType
			}
			if err = reporter.Assign(2, shapes.MakeDynamic(biasDType, output.Dim(outputChannelsAxis(attrs)))); err != nil {
				return err
			}
		}
		return reporter.Assign(numInputs, output)
	}
}

// outputChannelsAxis returns the position of the channels axis in the output.
// The output layout was already validated by the convolution rule.
func outputChannelsAxis(attrs *ops.ConvAttrs) int {
	for axis, r := range attrs.GetOutLayout() {
		if r == 'C' {
			return axis
		}
	}
	return 1
}

func globalPoolRel(types []shapes.Shape, numInputs int, attrs *ops.GlobalPoolAttrs, reporter *Reporter) error {
	output, err := shapeinference.GlobalPool2DOp(types[0], attrs)
	if err != nil {
		return err
	}
	return reporter.Assign(numInputs, output)
}

func padRel(types []shapes.Shape, numInputs int, attrs *ops.PadAttrs, reporter *Reporter) error {
	output, err := shapeinference.PadOp(types[0], attrs)
	if err != nil {
		return err
	}
	return reporter.Assign(numInputs, output)
}

// unaryRel binds the same type to every output slot.
func unaryRel(types []shapes.Shape, numInputs int, attrs *ops.UnaryAttrs, reporter *Reporter) error {
	return assignShapePreserving(types, numInputs, attrs.OutDType, reporter)
}

// softmaxRel binds the input type to every output slot. The axis doesn't change the shape.
func softmaxRel(types []shapes.Shape, numInputs int, _ *ops.AxisAttrs, reporter *Reporter) error {
	return assignShapePreserving(types, numInputs, dtypes.InvalidDType, reporter)
}

func assignShapePreserving(types []shapes.Shape, numInputs int, outDType dtypes.DType, reporter *Reporter) error {
	output, err := shapeinference.ShapePreservingOp(types[0], outDType)
	if err != nil {
		return err
	}
	for slot := numInputs; slot < len(types); slot++ {
		if err = reporter.Assign(slot, output); err != nil {
			return err
		}
	}
	return nil
}
