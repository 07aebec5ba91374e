// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ops enumerates the operators supported by shape inference and defines their typed attributes.
//
// Each operator family has one attributes struct (ConvAttrs, GlobalPoolAttrs, PadAttrs, UnaryAttrs, AxisAttrs),
// created once when the node is built and never modified by inference.
package ops

// OpType is the closed enumeration of the operators shape inference knows about.
type OpType int

//go:generate go tool enumer -type=OpType -trimprefix=OpType -text -output=gen_optype_enumer.go optype.go

const (
	OpTypeInvalid OpType = iota

	// OpTypeParameter is a graph input: it has no inputs and its type is given (or bound by a consumer).
	OpTypeParameter

	OpTypeConv2D
	OpTypeConvTranspose2D
	OpTypeGlobalMaxPool2D
	OpTypeGlobalAvgPool2D
	OpTypePad
	OpTypeRound
	OpTypeSoftmax
	OpTypeLogSoftmax
)

// IsOperator returns whether the op type is an operator with an inference rule.
// OpTypeInvalid and OpTypeParameter are not.
func (op OpType) IsOperator() bool {
	return op.IsAOpType() && op != OpTypeInvalid && op != OpTypeParameter
}

// Operators returns all op types that have an inference rule.
func Operators() []OpType {
	var operators []OpType
	for _, op := range OpTypeValues() {
		if op.IsOperator() {
			operators = append(operators, op)
		}
	}
	return operators
}
