// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/layout"
	"github.com/gomlx/shapeinfer/types/shapes"
)

// GlobalPool2DOp returns the output shape of global pooling operators (GlobalMaxPool2D, GlobalAvgPool2D):
// the data shape with the H and W axes set to 1.
//
// The layout (attrs.Layout) must have the same rank as data, and contain the H and W axes not split.
func GlobalPool2DOp(data shapes.Shape, attrs *ops.GlobalPoolAttrs) (shapes.Shape, error) {
	errorf := func(kind inferror.Kind, format string, args ...any) (shapes.Shape, error) {
		return shapes.Invalid(), inferror.Errorf(kind, "GlobalPool2DOp: "+format, args...)
	}
	if !data.Ok() {
		return shapes.Invalid(), unresolved("GlobalPool2DOp", "data")
	}
	if data.Rank() < 2 {
		return errorf(inferror.ShapeRankMismatch, "data %s must have at least rank 2", data)
	}
	dataLayout, err := layout.Parse(attrs.GetLayout())
	if err != nil {
		return shapes.Invalid(), err
	}
	if dataLayout.Rank() != data.Rank() {
		return errorf(inferror.ShapeRankMismatch, "layout %s has rank %d, but data %s has rank %d", dataLayout, dataLayout.Rank(), data, data.Rank())
	}
	output := data.Clone()
	for _, label := range []rune{'H', 'W'} {
		if !dataLayout.Contains(label) {
			return errorf(inferror.LayoutError, "layout %s has no %q axis", dataLayout, label)
		}
		if dataLayout.IsSplit(label) {
			return errorf(inferror.LayoutError, "layout %s has the %q axis split, it is not supported", dataLayout, label)
		}
		axis := dataLayout.IndexOf(label)
		output.Dimensions[axis] = 1
		if output.AxisNames != nil {
			output.AxisNames[axis] = ""
		}
	}
	return output, nil
}
