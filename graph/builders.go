// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/shapeinfer/ops"
)

// AddOp adds an operator node with one output to the graph of the inputs.
// The attributes are owned by the node afterwards, and must not be changed.
//
// Prefer the specialized builders (Conv2D, Pad, ...). AddOp is used when the attributes are already
// built, e.g. when loading a graph description.
func (g *Graph) AddOp(op ops.OpType, attrs ops.Attributes, inputs ...*Node) *Node {
	return g.AddOpWithOutputs(op, attrs, 1, inputs...)
}

// AddOpWithOutputs is like AddOp, but for operators with numOutputs outputs.
func (g *Graph) AddOpWithOutputs(op ops.OpType, attrs ops.Attributes, numOutputs int, inputs ...*Node) *Node {
	if !op.IsOperator() {
		exceptions.Panicf("Graph(%q).AddOp(%s): not an operator", g.name, op)
	}
	if attrs == nil {
		exceptions.Panicf("Graph(%q).AddOp(%s): attributes cannot be nil", g.name, op)
	}
	if numOutputs < 1 {
		exceptions.Panicf("Graph(%q).AddOp(%s): numOutputs=%d must be >= 1", g.name, op, numOutputs)
	}
	return g.newNode(op, attrs, slices.Clone(inputs), numOutputs)
}

// ConvConfig is created by ConvTranspose2D or Conv2D, configured with its methods, and finally
// added to the graph with Done.
type ConvConfig struct {
	op           ops.OpType
	data, weight *Node
	bias         *Node
	attrs        ops.ConvAttrs
}

// ConvTranspose2D starts the configuration of a 2D transposed convolution of data with weight.
// Call Done to add it to the graph.
//
// By default data is in the layout "NCHW", weight in the layout "IOHW", strides and dilation are 1 and there
// is no padding. The kernel size and number of channels are taken from the weight, unless both are configured,
// in which case the weight type is inferred from them.
func ConvTranspose2D(data, weight *Node) *ConvConfig {
	return newConvConfig(ops.OpTypeConvTranspose2D, data, weight)
}

// Conv2D starts the configuration of an ordinary 2D convolution of data with weight.
// Call Done to add it to the graph.
//
// Same defaults as ConvTranspose2D, except that weight is in the layout "OIHW".
func Conv2D(data, weight *Node) *ConvConfig {
	return newConvConfig(ops.OpTypeConv2D, data, weight)
}

func newConvConfig(op ops.OpType, data, weight *Node) *ConvConfig {
	g := graphFromInputs(data)
	if weight == nil || weight.graph != g {
		exceptions.Panicf("%s: weight must be a node of the same graph as data", op)
	}
	return &ConvConfig{op: op, data: data, weight: weight}
}

// Strides sets the stride for each spatial axis (H, W).
func (conv *ConvConfig) Strides(strides ...int) *ConvConfig {
	conv.attrs.Strides = slices.Clone(strides)
	return conv
}

// Padding sets the padding of the spatial axes, see ops.PadSymmetric, ops.PadPair, ops.PadPerAxis
// and ops.PadFlat.
func (conv *ConvConfig) Padding(padding ops.Padding) *ConvConfig {
	conv.attrs.Padding = padding
	return conv
}

// Dilation sets the kernel dilation for each spatial axis.
func (conv *ConvConfig) Dilation(dilation ...int) *ConvConfig {
	conv.attrs.Dilation = slices.Clone(dilation)
	return conv
}

// KernelSize sets the spatial size of the kernel.
func (conv *ConvConfig) KernelSize(kernelSize ...int) *ConvConfig {
	conv.attrs.KernelSize = slices.Clone(kernelSize)
	return conv
}

// Channels sets the number of output channels.
func (conv *ConvConfig) Channels(channels int) *ConvConfig {
	conv.attrs.Channels = channels
	return conv
}

// Groups sets the number of channel groups.
func (conv *ConvConfig) Groups(groups int) *ConvConfig {
	conv.attrs.Groups = groups
	return conv
}

// OutputPadding sets the padding added to the after side of each output spatial axis.
// Only valid for ConvTranspose2D.
func (conv *ConvConfig) OutputPadding(outputPadding ...int) *ConvConfig {
	conv.attrs.OutputPadding = slices.Clone(outputPadding)
	return conv
}

// Layouts sets the layouts of the data, the weight and the output. Empty strings keep the defaults.
func (conv *ConvConfig) Layouts(data, kernel, out string) *ConvConfig {
	conv.attrs.DataLayout = data
	conv.attrs.KernelLayout = kernel
	conv.attrs.OutLayout = out
	return conv
}

// OutDType sets the dtype of the output. By default, it is the dtype of data.
func (conv *ConvConfig) OutDType(dtype dtypes.DType) *ConvConfig {
	conv.attrs.OutDType = dtype
	return conv
}

// Bias sets the optional bias input. Its type is inferred as (channels) if unresolved.
func (conv *ConvConfig) Bias(bias *Node) *ConvConfig {
	if bias != nil && bias.graph != conv.data.graph {
		exceptions.Panicf("%s: bias must be a node of the same graph as data", conv.op)
	}
	conv.bias = bias
	return conv
}

// Quant sets the quantization parameters. They are carried along, but not used by inference.
func (conv *ConvConfig) Quant(quant ops.QuantParams) *ConvConfig {
	conv.attrs.QuantParams = quant
	return conv
}

// Done adds the convolution to the graph and returns its node.
func (conv *ConvConfig) Done() *Node {
	inputs := []*Node{conv.data, conv.weight}
	if conv.bias != nil {
		inputs = append(inputs, conv.bias)
	}
	attrs := conv.attrs
	return conv.data.graph.AddOp(conv.op, &attrs, inputs...)
}

// GlobalMaxPool2D reduces the H and W axes of data to 1, taking the maximum.
// dataLayout defaults to "NCHW" if empty.
func GlobalMaxPool2D(data *Node, dataLayout string) *Node {
	return graphFromInputs(data).AddOp(ops.OpTypeGlobalMaxPool2D, &ops.GlobalPoolAttrs{Layout: dataLayout}, data)
}

// GlobalAvgPool2D reduces the H and W axes of data to 1, taking the mean.
// dataLayout defaults to "NCHW" if empty.
func GlobalAvgPool2D(data *Node, dataLayout string) *Node {
	return graphFromInputs(data).AddOp(ops.OpTypeGlobalAvgPool2D, &ops.GlobalPoolAttrs{Layout: dataLayout}, data)
}

// Pad pads each axis of data with a (before, after) pair in padWidth, with zeros.
// Use AddOp with ops.PadAttrs to set the value or mode of the padding.
func Pad(data *Node, padWidth ...[]int) *Node {
	width := make([][]int, len(padWidth))
	for ii, pair := range padWidth {
		width[ii] = slices.Clone(pair)
	}
	return graphFromInputs(data).AddOp(ops.OpTypePad, &ops.PadAttrs{PadWidth: width}, data)
}

// Round rounds data element-wise. The output has the same type as data.
func Round(data *Node) *Node {
	return graphFromInputs(data).AddOp(ops.OpTypeRound, &ops.UnaryAttrs{}, data)
}

// Softmax normalizes data along axis. The output has the same type as data.
func Softmax(data *Node, axis int) *Node {
	return graphFromInputs(data).AddOp(ops.OpTypeSoftmax, &ops.AxisAttrs{Axis: axis}, data)
}

// LogSoftmax is the log of Softmax. The output has the same type as data.
func LogSoftmax(data *Node, axis int) *Node {
	return graphFromInputs(data).AddOp(ops.OpTypeLogSoftmax, &ops.AxisAttrs{Axis: axis}, data)
}
