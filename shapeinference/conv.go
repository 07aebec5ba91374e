// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/layout"
	"github.com/gomlx/shapeinfer/types/shapes"
	"github.com/pkg/errors"
)

// numSpatial is the number of spatial axes (H and W) of the 2D convolutions.
const numSpatial = 2

// ConvKernel is the kernel configuration of a convolution, resolved from the attributes and the weight shape.
type ConvKernel struct {
	// KernelSize holds the spatial dimensions of the kernel, in the order (H, W).
	KernelSize []int

	// Channels is the number of output channels.
	Channels int

	// Weight is the shape of the weight, in the kernel layout.
	Weight shapes.Shape
}

// KernelLayout returns the kernel layout of the convolution: attrs.KernelLayout if set, or
// the canonical one: layout.IOHW if transposed, layout.OIHW otherwise.
func KernelLayout(attrs *ops.ConvAttrs, transposed bool) string {
	switch {
	case attrs.KernelLayout != "":
		return attrs.KernelLayout
	case transposed:
		return layout.IOHW
	default:
		return layout.OIHW
	}
}

// canonicalKernelLayout is the layout ResolveConvKernel reasons in.
func canonicalKernelLayout(transposed bool) string {
	if transposed {
		return layout.IOHW
	}
	return layout.OIHW
}

// convOpName is used in error messages.
func convOpName(transposed bool) string {
	if transposed {
		return "ConvTranspose2DOp"
	}
	return "Conv2DOp"
}

// symbolicDiv divides dimensions, and returns shapes.DimUnknown if the numerator is symbolic.
func symbolicDiv(dim, divisor int) int {
	if shapes.IsSymbolic(dim) {
		return shapes.DimUnknown
	}
	return dim / divisor
}

// symbolicMul multiplies dimensions, and returns shapes.DimUnknown if any of them is symbolic.
func symbolicMul(dim, factor int) int {
	if shapes.IsSymbolic(dim) || shapes.IsSymbolic(factor) {
		return shapes.DimUnknown
	}
	return dim * factor
}

// ResolveConvKernel resolves the kernel size and the number of output channels of a convolution.
//
// data must be given in the canonical layout "NCHW". If both attrs.KernelSize and attrs.Channels are set,
// they drive: the weight shape is derived from them, and if weight is already known it must match.
// Otherwise, the weight must be known (or an inferror.UnresolvedInput error is returned) and the kernel
// size and channels are taken from it; any of them given in attrs is cross-checked.
//
// The canonical kernel layouts are "IOHW" for transposed convolutions, where I is the number of data channels
// and O*groups the number of output channels, and "OIHW" for ordinary convolutions, where O is the number
// of output channels and I*groups the number of data channels.
func ResolveConvKernel(data, weight shapes.Shape, attrs *ops.ConvAttrs, transposed bool) (kernel ConvKernel, err error) {
	opName := convOpName(transposed)
	errorf := func(kind inferror.Kind, format string, args ...any) (ConvKernel, error) {
		return ConvKernel{}, inferror.Errorf(kind, opName+": "+format, args...)
	}
	if err = data.CheckRank(4); err != nil {
		return ConvKernel{}, inferror.Wrapf(inferror.ShapeRankMismatch, err, "%s: data must be in the canonical layout NCHW", opName)
	}
	groups := attrs.GetGroups()
	if groups < 1 {
		return errorf(inferror.InvalidValue, "groups=%d must be >= 1", attrs.Groups)
	}
	if attrs.Channels < 0 {
		return errorf(inferror.InvalidValue, "channels=%d must be >= 0 (0 for unset)", attrs.Channels)
	}
	if attrs.KernelSize != nil {
		if len(attrs.KernelSize) != numSpatial {
			return errorf(inferror.ShapeRankMismatch, "kernel_size %v must have one value per spatial axis (%d)", attrs.KernelSize, numSpatial)
		}
		for axis, k := range attrs.KernelSize {
			if k < 1 {
				return errorf(inferror.InvalidValue, "kernel_size[%d]=%d must be >= 1", axis, k)
			}
		}
	}
	dataChannels := data.Dim(1)
	if !shapes.IsSymbolic(dataChannels) && dataChannels%groups != 0 {
		return errorf(inferror.ConfigMismatch, "data channels %d must be divisible by groups=%d (data shape %s)", dataChannels, groups, data)
	}
	kernelLayout, err := layout.Parse(KernelLayout(attrs, transposed))
	if err != nil {
		return ConvKernel{}, err
	}
	kernelBijection, err := layout.NewBijective(kernelLayout, layout.MustParse(canonicalKernelLayout(transposed)))
	if err != nil {
		return ConvKernel{}, err
	}

	if attrs.KernelSize != nil && attrs.Channels > 0 {
		// Attributes drive: derive the weight shape.
		if attrs.Channels%groups != 0 {
			return errorf(inferror.ConfigMismatch, "channels=%d must be divisible by groups=%d", attrs.Channels, groups)
		}
		kh, kw := attrs.KernelSize[0], attrs.KernelSize[1]
		var canonicalDims []int
		if transposed {
			canonicalDims = []int{dataChannels, attrs.Channels / groups, kh, kw}
		} else {
			canonicalDims = []int{attrs.Channels, symbolicDiv(dataChannels, groups), kh, kw}
		}
		dtype := data.DType
		if weight.Ok() {
			dtype = weight.DType
		}
		derived, err := kernelBijection.BackwardShape(shapes.MakeDynamic(dtype, canonicalDims...))
		if err != nil {
			return ConvKernel{}, err
		}
		if weight.Ok() {
			if err := weight.CheckDims(derived.Dimensions...); err != nil {
				return errorf(inferror.ConfigMismatch, "weight %s doesn't match kernel_size=%v and channels=%d (derived weight %s in layout %s): %v",
					weight, attrs.KernelSize, attrs.Channels, derived, kernelLayout, err)
			}
			derived = weight
		}
		return ConvKernel{
			KernelSize: []int{kh, kw},
			Channels:   attrs.Channels,
			Weight:     derived,
		}, nil
	}

	// Weight drives.
	if !weight.Ok() {
		return ConvKernel{}, unresolved(opName, "weight")
	}
	canonicalWeight, err := kernelBijection.ForwardShape(weight)
	if err != nil {
		return ConvKernel{}, inferror.Wrapf(inferror.ShapeRankMismatch, err, "%s: weight %s in layout %s", opName, weight, kernelLayout)
	}
	kernel = ConvKernel{
		KernelSize: canonicalWeight.Dimensions[2:4],
		Weight:     weight,
	}
	if transposed {
		weightInChannels := canonicalWeight.Dim(0)
		if !shapes.DimsCompatible(dataChannels, weightInChannels) {
			return errorf(inferror.ConfigMismatch, "data channels %d (data %s) don't match the weight input channels %d (weight %s in layout %s)",
				dataChannels, data, weightInChannels, weight, kernelLayout)
		}
		kernel.Channels = symbolicMul(canonicalWeight.Dim(1), groups)
	} else {
		kernel.Channels = canonicalWeight.Dim(0)
		weightInChannels := symbolicMul(canonicalWeight.Dim(1), groups)
		if !shapes.DimsCompatible(dataChannels, weightInChannels) {
			return errorf(inferror.ConfigMismatch, "data channels %d (data %s) don't match the weight input channels times groups %d (weight %s in layout %s, groups=%d)",
				dataChannels, data, weightInChannels, weight, kernelLayout, groups)
		}
		if !shapes.IsSymbolic(kernel.Channels) && kernel.Channels%groups != 0 {
			return errorf(inferror.ConfigMismatch, "weight output channels %d must be divisible by groups=%d", kernel.Channels, groups)
		}
	}
	if attrs.Channels > 0 && !shapes.DimsCompatible(attrs.Channels, kernel.Channels) {
		return errorf(inferror.ConfigMismatch, "channels=%d doesn't match the %d channels of weight %s (layout %s, groups=%d)",
			attrs.Channels, kernel.Channels, weight, kernelLayout, groups)
	}
	for axis, k := range attrs.KernelSize {
		if !shapes.DimsCompatible(k, kernel.KernelSize[axis]) {
			return errorf(inferror.ConfigMismatch, "kernel_size=%v doesn't match weight %s (layout %s)", attrs.KernelSize, weight, kernelLayout)
		}
	}
	return kernel, nil
}

// spatialVector validates an optional per spatial axis vector: nil returns defaultValue for every axis.
// Values must be >= minValue.
func spatialVector(opName, name string, values []int, defaultValue, minValue int) ([]int, error) {
	if values == nil {
		out := make([]int, numSpatial)
		for ii := range out {
			out[ii] = defaultValue
		}
		return out, nil
	}
	if len(values) != numSpatial {
		return nil, inferror.Errorf(inferror.ShapeRankMismatch, "%s: %s %v must have one value per spatial axis (%d)", opName, name, values, numSpatial)
	}
	for axis, value := range values {
		if value < minValue {
			return nil, inferror.Errorf(inferror.InvalidValue, "%s: %s[%d]=%d must be >= %d", opName, name, axis, value, minValue)
		}
	}
	return values, nil
}

// convGeometry holds the validated spatial configuration of a convolution.
type convGeometry struct {
	strides, dilations, outputPadding []int
	paddings                          [][2]int
}

func newConvGeometry(attrs *ops.ConvAttrs, transposed bool) (g convGeometry, err error) {
	opName := convOpName(transposed)
	if g.strides, err = spatialVector(opName, "strides", attrs.Strides, 1, 1); err != nil {
		return
	}
	if g.dilations, err = spatialVector(opName, "dilation", attrs.Dilation, 1, 1); err != nil {
		return
	}
	if g.outputPadding, err = spatialVector(opName, "output_padding", attrs.OutputPadding, 0, 0); err != nil {
		return
	}
	if !transposed {
		for axis, p := range g.outputPadding {
			if p != 0 {
				err = inferror.Errorf(inferror.InvalidValue, "%s: output_padding[%d]=%d is only supported by transposed convolutions", opName, axis, p)
				return
			}
		}
	}
	g.paddings, err = NormalizePadding(attrs.Padding, numSpatial)
	err = errors.WithMessage(err, opName)
	return
}

// convOp implements ConvTranspose2DOp and Conv2DOp.
func convOp(data, weight shapes.Shape, attrs *ops.ConvAttrs, transposed bool) (output, weightShape shapes.Shape, err error) {
	opName := convOpName(transposed)
	errorf := func(kind inferror.Kind, format string, args ...any) (shapes.Shape, shapes.Shape, error) {
		return shapes.Invalid(), shapes.Invalid(), inferror.Errorf(kind, opName+": "+format, args...)
	}
	fail := func(err error) (shapes.Shape, shapes.Shape, error) {
		return shapes.Invalid(), shapes.Invalid(), err
	}
	if !data.Ok() {
		return fail(unresolved(opName, "data"))
	}

	// Map data and output layouts to the canonical NCHW.
	canonical := layout.MustParse(layout.NCHW)
	dataLayout, err := layout.Parse(attrs.GetDataLayout())
	if err != nil {
		return fail(err)
	}
	dataBijection, err := layout.NewBijective(dataLayout, canonical)
	if err != nil {
		return fail(err)
	}
	outLayout, err := layout.Parse(attrs.GetOutLayout())
	if err != nil {
		return fail(err)
	}
	outBijection, err := layout.NewBijective(outLayout, canonical)
	if err != nil {
		return fail(err)
	}
	dataNCHW, err := dataBijection.ForwardShape(data)
	if err != nil {
		return errorf(inferror.ShapeRankMismatch, "data %s doesn't match data layout %s", data, dataLayout)
	}

	geometry, err := newConvGeometry(attrs, transposed)
	if err != nil {
		return fail(err)
	}
	kernel, err := ResolveConvKernel(dataNCHW, weight, attrs, transposed)
	if err != nil {
		return fail(err)
	}

	// Output in NCHW: batch axis (and its name) is preserved.
	outputNCHW := shapes.MakeDynamic(outputDType(data, attrs.OutDType), dataNCHW.Dim(0), kernel.Channels, 0, 0)
	if dataNCHW.HasNamedAxes() {
		outputNCHW.AxisNames = []string{dataNCHW.AxisName(0), "", "", ""}
	}
	for axis := range numSpatial {
		in := dataNCHW.Dim(2 + axis)
		k := kernel.KernelSize[axis]
		if shapes.IsSymbolic(in) || shapes.IsSymbolic(k) {
			outputNCHW.Dimensions[2+axis] = shapes.DimUnknown
			continue
		}
		stride, dilation := geometry.strides[axis], geometry.dilations[axis]
		padding := geometry.paddings[axis][0] + geometry.paddings[axis][1]
		dilatedKernel := 1 + (k-1)*dilation
		var out int
		if transposed {
			out = stride*(in-1) + dilatedKernel - padding + geometry.outputPadding[axis]
		} else {
			if dilatedKernel > in+padding {
				return errorf(inferror.InvalidValue, "dilated kernel size %d for spatial axis %d is larger than the padded input %d (data %s, kernel_size=%v, dilation=%v, padding=%v)",
					dilatedKernel, axis, in+padding, data, kernel.KernelSize, geometry.dilations, geometry.paddings)
			}
			out = (in+padding-dilatedKernel)/stride + 1
		}
		if out <= 0 {
			return errorf(inferror.InvalidValue, "output spatial axis %d has non-positive dimension %d (data %s, kernel_size=%v, strides=%v, dilation=%v, padding=%v)",
				axis, out, data, kernel.KernelSize, geometry.strides, geometry.dilations, geometry.paddings)
		}
		outputNCHW.Dimensions[2+axis] = out
	}
	output, err = outBijection.BackwardShape(outputNCHW)
	if err != nil {
		return fail(err)
	}
	return output, kernel.Weight, nil
}

// ConvTranspose2DOp returns the output shape of a 2D transposed convolution (deconvolution), and the shape the
// weight must have (see ResolveConvKernel).
//
// For each spatial axis the output dimension is:
//
//	out = stride*(in-1) + (1+(kernel-1)*dilation) - (padding_before+padding_after) + output_padding
//
// The output is given in attrs.OutLayout (defaults to the data layout) and has dtype attrs.OutDType (defaults
// to the data dtype).
func ConvTranspose2DOp(data, weight shapes.Shape, attrs *ops.ConvAttrs) (output, weightShape shapes.Shape, err error) {
	return convOp(data, weight, attrs, true)
}

// Conv2DOp returns the output shape of an ordinary 2D convolution, and the shape the weight must have.
//
// For each spatial axis the output dimension is:
//
//	out = (in + padding_before + padding_after - (1+(kernel-1)*dilation)) / stride + 1
func Conv2DOp(data, weight shapes.Shape, attrs *ops.ConvAttrs) (output, weightShape shapes.Shape, err error) {
	return convOp(data, weight, attrs, false)
}
