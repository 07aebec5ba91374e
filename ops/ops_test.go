// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpType(t *testing.T) {
	assert.Equal(t, "ConvTranspose2D", OpTypeConvTranspose2D.String())
	op, err := OpTypeString("globalmaxpool2d")
	require.NoError(t, err)
	assert.Equal(t, OpTypeGlobalMaxPool2D, op)

	var parsed OpType
	require.NoError(t, parsed.UnmarshalText([]byte("LogSoftmax")))
	assert.Equal(t, OpTypeLogSoftmax, parsed)
	require.Error(t, parsed.UnmarshalText([]byte("Conv3D")))

	operators := Operators()
	assert.NotContains(t, operators, OpTypeInvalid)
	assert.NotContains(t, operators, OpTypeParameter)
	assert.Len(t, operators, len(OpTypeValues())-2)
	assert.False(t, OpType(100).IsOperator())
}

func TestPadding(t *testing.T) {
	assert.Equal(t, PaddingNone, Padding{}.Form())
	assert.Equal(t, "none", Padding{}.String())
	assert.Equal(t, "[1]", PadSymmetric(1).String())
	assert.Equal(t, "[1 2]", PadPair(1, 2).String())
	assert.Equal(t, "[[0 1] [2 3]]", PadPerAxis([]int{0, 1}, []int{2, 3}).String())
	assert.Equal(t, PaddingFlat, PadFlat(1, 2, 3, 4).Form())

	// Values are copied.
	pair := []int{1, 1}
	p := PadPerAxis(pair, pair)
	pair[0] = 5
	assert.Equal(t, [][]int{{1, 1}, {1, 1}}, p.Values())
}

func TestDefaults(t *testing.T) {
	conv := &ConvAttrs{}
	assert.Equal(t, 1, conv.GetGroups())
	assert.Equal(t, "NCHW", conv.GetDataLayout())
	assert.Equal(t, "NCHW", conv.GetOutLayout())
	conv.DataLayout = "NHWC"
	assert.Equal(t, "NHWC", conv.GetOutLayout())
	conv.OutLayout = "NCHW"
	assert.Equal(t, "NCHW", conv.GetOutLayout())

	assert.Equal(t, "NCHW", (&GlobalPoolAttrs{}).GetLayout())

	var attrs Attributes = &PadAttrs{QuantParams: QuantParams{LayerName: "pad0"}}
	assert.Equal(t, "pad0", attrs.Quant().LayerName)
	assert.False(t, attrs.Quant().IsSet())
	attrs = &AxisAttrs{QuantParams: QuantParams{InputScale: 0.5}}
	assert.True(t, attrs.Quant().IsSet())
}
