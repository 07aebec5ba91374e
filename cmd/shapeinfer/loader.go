// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"os"
	"strconv"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/shapeinfer/graph"
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types/shapes"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// graphDesc is the YAML description of a graph:
//
//	name: upsample
//	parameters:
//	  - {name: x, dtype: Float32, shape: [batch, 16, 8, 8]}
//	  - {name: w}  # Unresolved, bound by its consumer.
//	nodes:
//	  - name: deconv
//	    op: ConvTranspose2D
//	    inputs: [x, w]
//	    attrs: {strides: [2, 2], padding: [1], kernel_size: [3, 3], channels: 8}
//
// Dimensions given as names are symbolic.
type graphDesc struct {
	Name       string          `yaml:"name"`
	Parameters []parameterDesc `yaml:"parameters"`
	Nodes      []nodeDesc      `yaml:"nodes"`
}

type parameterDesc struct {
	Name  string    `yaml:"name"`
	DType string    `yaml:"dtype"`
	Shape []dimDesc `yaml:"shape"`
}

type nodeDesc struct {
	Name    string     `yaml:"name"`
	Op      ops.OpType `yaml:"op"`
	Inputs  []string   `yaml:"inputs"`
	Outputs int        `yaml:"outputs"`
	Attrs   attrsDesc  `yaml:"attrs"`
}

// attrsDesc is the union of the attributes of all operators.
type attrsDesc struct {
	Strides       []int       `yaml:"strides"`
	Padding       paddingDesc `yaml:"padding"`
	Dilation      []int       `yaml:"dilation"`
	KernelSize    []int       `yaml:"kernel_size"`
	Groups        int         `yaml:"groups"`
	Channels      int         `yaml:"channels"`
	OutputPadding []int       `yaml:"output_padding"`
	DataLayout    string      `yaml:"data_layout"`
	KernelLayout  string      `yaml:"kernel_layout"`
	OutLayout     string      `yaml:"out_layout"`
	Layout        string      `yaml:"layout"`
	PadWidth      [][]int     `yaml:"pad_width"`
	PadValue      float64     `yaml:"pad_value"`
	PadMode       string      `yaml:"pad_mode"`
	Axis          int         `yaml:"axis"`
	OutDType      string      `yaml:"out_dtype"`
	Quant         quantDesc   `yaml:"quant"`
}

type quantDesc struct {
	InputScale      float64   `yaml:"input_scale"`
	OutputScale     float64   `yaml:"output_scale"`
	KernelScale     float64   `yaml:"kernel_scale"`
	InputZeroPoint  int       `yaml:"input_zero_point"`
	OutputZeroPoint int       `yaml:"output_zero_point"`
	KernelZeroPoint int       `yaml:"kernel_zero_point"`
	MinValues       []float64 `yaml:"min_values"`
	MaxValues       []float64 `yaml:"max_values"`
	LayerName       string    `yaml:"layer_name"`
}

// dimDesc is either a concrete dimension, or the name of a symbolic one.
type dimDesc struct {
	dim  int
	name string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *dimDesc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: dimension must be an integer or a name", value.Line)
	}
	if value.Tag == "!!int" {
		dim, err := strconv.Atoi(value.Value)
		if err != nil {
			return errors.Wrapf(err, "line %d: invalid dimension %q", value.Line, value.Value)
		}
		if dim < 0 {
			return errors.Errorf("line %d: negative dimension %d, use a name for symbolic dimensions", value.Line, dim)
		}
		d.dim = dim
		return nil
	}
	d.dim = shapes.DimUnknown
	if value.Value != "?" {
		d.name = value.Value
	}
	return nil
}

// paddingDesc is either a flat list of paddings, or a list of (before, after) pairs.
type paddingDesc struct {
	padding ops.Padding
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *paddingDesc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode && len(value.Content) > 0 && value.Content[0].Kind == yaml.SequenceNode {
		var pairs [][]int
		if err := value.Decode(&pairs); err != nil {
			return errors.Wrapf(err, "line %d: invalid padding", value.Line)
		}
		p.padding = ops.PadPerAxis(pairs...)
		return nil
	}
	var flat []int
	if err := value.Decode(&flat); err != nil {
		return errors.Wrapf(err, "line %d: invalid padding", value.Line)
	}
	p.padding = ops.PadFlat(flat...)
	return nil
}

// LoadGraphFile loads the graph described by the YAML file in filePath.
func LoadGraphFile(filePath string) (*graph.Graph, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open graph description")
	}
	defer func() { _ = f.Close() }()
	g, err := LoadGraph(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading %q", filePath)
	}
	return g, nil
}

// LoadGraph decodes a YAML graph description from r and builds the graph. Its types are not inferred.
func LoadGraph(r io.Reader) (*graph.Graph, error) {
	var gd graphDesc
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&gd); err != nil {
		return nil, errors.Wrapf(err, "failed to parse graph description")
	}
	var g *graph.Graph
	err := exceptions.TryCatch[error](func() { g = buildGraph(&gd) })
	if err != nil {
		return nil, err
	}
	return g, nil
}

// buildGraph panics with an error if the description is invalid.
func buildGraph(gd *graphDesc) *graph.Graph {
	g := graph.New(gd.Name)
	nodeByName := make(map[string]*graph.Node)
	for _, param := range gd.Parameters {
		if _, found := nodeByName[param.Name]; found {
			panic(errors.Errorf("parameter %q defined more than once", param.Name))
		}
		shape := shapes.Invalid()
		if param.Shape != nil {
			shape = makeShape(param)
		} else if param.DType != "" {
			panic(errors.Errorf("parameter %q has a dtype but no shape: unresolved parameters must have neither",
				param.Name))
		}
		nodeByName[param.Name] = g.Parameter(param.Name, shape)
	}
	for ii, desc := range gd.Nodes {
		if desc.Name == "" {
			panic(errors.Errorf("node #%d (%s) has no name", ii, desc.Op))
		}
		if _, found := nodeByName[desc.Name]; found {
			panic(errors.Errorf("node %q defined more than once", desc.Name))
		}
		if !desc.Op.IsOperator() {
			panic(errors.Errorf("node %q: %q is not an operator", desc.Name, desc.Op))
		}
		inputs := make([]*graph.Node, len(desc.Inputs))
		for inputIdx, inputName := range desc.Inputs {
			input, found := nodeByName[inputName]
			if !found {
				panic(errors.Errorf("node %q: unknown input %q, inputs must be defined before they are used",
					desc.Name, inputName))
			}
			inputs[inputIdx] = input
		}
		if len(inputs) == 0 {
			panic(errors.Errorf("node %q has no inputs", desc.Name))
		}
		numOutputs := max(desc.Outputs, 1)
		nodeByName[desc.Name] = g.AddOpWithOutputs(desc.Op, makeAttrs(&desc), numOutputs, inputs...)
	}
	return g
}

func makeShape(param parameterDesc) shapes.Shape {
	dtype := parseDType(param.DType, "parameter "+strconv.Quote(param.Name))
	if dtype == dtypes.InvalidDType {
		panic(errors.Errorf("parameter %q with a shape must have a dtype", param.Name))
	}
	dims := make([]int, len(param.Shape))
	names := make([]string, len(param.Shape))
	var hasNames bool
	for ii, dim := range param.Shape {
		dims[ii] = dim.dim
		names[ii] = dim.name
		hasNames = hasNames || dim.name != ""
	}
	shape := shapes.MakeDynamic(dtype, dims...)
	if hasNames {
		shape = shape.WithAxisNames(names...)
	}
	return shape
}

// parseDType returns dtypes.InvalidDType for an empty name.
func parseDType(name, context string) dtypes.DType {
	if name == "" {
		return dtypes.InvalidDType
	}
	dtype, err := dtypes.DTypeString(name)
	if err != nil {
		panic(errors.Wrapf(err, "%s: invalid dtype %q", context, name))
	}
	return dtype
}

// makeAttrs converts the attributes of the node to the type used by its operator.
func makeAttrs(desc *nodeDesc) ops.Attributes {
	a := &desc.Attrs
	context := "node " + strconv.Quote(desc.Name)
	quant := ops.QuantParams{
		InputScale:      a.Quant.InputScale,
		OutputScale:     a.Quant.OutputScale,
		KernelScale:     a.Quant.KernelScale,
		InputZeroPoint:  a.Quant.InputZeroPoint,
		OutputZeroPoint: a.Quant.OutputZeroPoint,
		KernelZeroPoint: a.Quant.KernelZeroPoint,
		MinValues:       a.Quant.MinValues,
		MaxValues:       a.Quant.MaxValues,
		LayerName:       a.Quant.LayerName,
	}
	if quant.LayerName == "" {
		quant.LayerName = desc.Name
	}
	outDType := parseDType(a.OutDType, context)
	switch desc.Op {
	case ops.OpTypeConv2D, ops.OpTypeConvTranspose2D:
		return &ops.ConvAttrs{
			Strides:       a.Strides,
			Padding:       a.Padding.padding,
			Dilation:      a.Dilation,
			KernelSize:    a.KernelSize,
			Groups:        a.Groups,
			Channels:      a.Channels,
			OutputPadding: a.OutputPadding,
			DataLayout:    a.DataLayout,
			KernelLayout:  a.KernelLayout,
			OutLayout:     a.OutLayout,
			OutDType:      outDType,
			QuantParams:   quant,
		}
	case ops.OpTypeGlobalMaxPool2D, ops.OpTypeGlobalAvgPool2D:
		return &ops.GlobalPoolAttrs{Layout: a.Layout, QuantParams: quant}
	case ops.OpTypePad:
		return &ops.PadAttrs{
			PadWidth:    a.PadWidth,
			PadValue:    a.PadValue,
			PadMode:     ops.PadMode(a.PadMode),
			OutDType:    outDType,
			QuantParams: quant,
		}
	case ops.OpTypeSoftmax, ops.OpTypeLogSoftmax:
		return &ops.AxisAttrs{Axis: a.Axis, QuantParams: quant}
	default:
		return &ops.UnaryAttrs{OutDType: outDType, QuantParams: quant}
	}
}
