// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ops

import (
	"github.com/gomlx/gopjrt/dtypes"
)

// Attributes of an operator node. Each operator family has its own concrete type:
// *ConvAttrs, *GlobalPoolAttrs, *PadAttrs, *UnaryAttrs or *AxisAttrs.
type Attributes interface {
	// Quant returns the quantization parameters of the node. They are carried along, but not used by inference.
	Quant() *QuantParams
}

// QuantParams holds the quantization metadata of a node.
type QuantParams struct {
	InputScale, OutputScale, KernelScale             float64
	InputZeroPoint, OutputZeroPoint, KernelZeroPoint int
	MinValues, MaxValues                             []float64
	LayerName                                        string
}

// Quant implements Attributes.
func (q *QuantParams) Quant() *QuantParams { return q }

// IsSet returns whether any quantization parameter was given.
func (q *QuantParams) IsSet() bool {
	return q.InputScale != 0 || q.OutputScale != 0 || q.KernelScale != 0 ||
		q.InputZeroPoint != 0 || q.OutputZeroPoint != 0 || q.KernelZeroPoint != 0 ||
		len(q.MinValues) > 0 || len(q.MaxValues) > 0
}

// ConvAttrs are the attributes of Conv2D and ConvTranspose2D.
//
// Vectors (Strides, Dilation, KernelSize, OutputPadding) are either nil, meaning the default, or have one
// value per spatial axis.
type ConvAttrs struct {
	Strides  []int
	Padding  Padding
	Dilation []int

	// KernelSize is the spatial size of the kernel. If nil it is taken from the weight.
	KernelSize []int

	// Groups of channels, defaults to 1 if 0.
	Groups int

	// Channels is the number of output channels. If 0 it is taken from the weight.
	Channels int

	// OutputPadding is added to the after side of the output spatial axes. Only used by ConvTranspose2D.
	OutputPadding []int

	// DataLayout of the data input, defaults to "NCHW".
	DataLayout string

	// KernelLayout of the weight input, defaults to "OIHW" for Conv2D and "IOHW" for ConvTranspose2D.
	// For ConvTranspose2D, "I" is the data channels axis and "O" the output channels (per group) axis: graphs
	// that label the transposed weight "OIHW" with axis 0 holding the data channels must use "IOHW" instead.
	KernelLayout string

	// OutLayout of the output, defaults to DataLayout.
	OutLayout string

	// OutDType of the output, defaults to the data dtype if dtypes.InvalidDType.
	OutDType dtypes.DType

	QuantParams
}

// GetGroups returns the number of groups, with the default applied.
func (c *ConvAttrs) GetGroups() int {
	if c.Groups == 0 {
		return 1
	}
	return c.Groups
}

// GetDataLayout returns the data layout, with the default applied.
func (c *ConvAttrs) GetDataLayout() string {
	if c.DataLayout == "" {
		return "NCHW"
	}
	return c.DataLayout
}

// GetOutLayout returns the output layout, with the default applied.
func (c *ConvAttrs) GetOutLayout() string {
	if c.OutLayout == "" {
		return c.GetDataLayout()
	}
	return c.OutLayout
}

// GlobalPoolAttrs are the attributes of GlobalMaxPool2D and GlobalAvgPool2D.
type GlobalPoolAttrs struct {
	// Layout of the data, defaults to "NCHW". It must contain whole H and W axes.
	Layout string

	QuantParams
}

// GetLayout returns the layout, with the default applied.
func (g *GlobalPoolAttrs) GetLayout() string {
	if g.Layout == "" {
		return "NCHW"
	}
	return g.Layout
}

// PadMode is the mode used to fill the padded values.
type PadMode string

const (
	PadModeConstant PadMode = "constant"
	PadModeEdge     PadMode = "edge"
	PadModeReflect  PadMode = "reflect"
)

// PadAttrs are the attributes of Pad.
type PadAttrs struct {
	// PadWidth has one (before, after) pair per axis of the input.
	PadWidth [][]int

	// PadValue used with PadModeConstant.
	PadValue float64

	// PadMode defaults to PadModeConstant if empty.
	PadMode PadMode

	// OutDType of the output, defaults to the data dtype if dtypes.InvalidDType.
	OutDType dtypes.DType

	QuantParams
}

// UnaryAttrs are the attributes of element-wise operators, like Round.
type UnaryAttrs struct {
	// OutDType of the output, defaults to the data dtype if dtypes.InvalidDType.
	OutDType dtypes.DType

	QuantParams
}

// AxisAttrs are the attributes of operators along an axis, like Softmax and LogSoftmax.
type AxisAttrs struct {
	// Axis may be negative, counting from the end. Shape inference doesn't depend on it.
	Axis int

	QuantParams
}

var (
	_ Attributes = (*ConvAttrs)(nil)
	_ Attributes = (*GlobalPoolAttrs)(nil)
	_ Attributes = (*PadAttrs)(nil)
	_ Attributes = (*UnaryAttrs)(nil)
	_ Attributes = (*AxisAttrs)(nil)
)
