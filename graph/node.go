// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"strings"

	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types/shapes"
)

// NodeId is a unique NodeId within a Graph: its position in Graph.Nodes().
type NodeId int

// Node of the graph: a parameter or an operator.
type Node struct {
	graph *Graph
	id    NodeId
	op    ops.OpType
	name  string

	attrs  ops.Attributes
	inputs []*Node

	// outputs hold the types of the node outputs, shapes.Invalid() while unresolved.
	outputs []shapes.Shape
}

// Graph the node belongs to.
func (n *Node) Graph() *Graph { return n.graph }

// Id of the node within its graph.
func (n *Node) Id() NodeId { return n.id }

// Type returns the operator type of the node.
func (n *Node) Type() ops.OpType { return n.op }

// Name of the node: the parameter name, or the layer name of the quantization parameters, or "".
func (n *Node) Name() string {
	if n.name == "" && n.attrs != nil {
		return n.attrs.Quant().LayerName
	}
	return n.name
}

// Attributes of the operator. It is nil for parameters.
func (n *Node) Attributes() ops.Attributes { return n.attrs }

// Inputs of the node. The returned slice must not be changed.
func (n *Node) Inputs() []*Node { return n.inputs }

// NumOutputs returns the number of outputs of the node.
func (n *Node) NumOutputs() int { return len(n.outputs) }

// Shape returns the type of the first output, shapes.Invalid() if not resolved yet.
func (n *Node) Shape() shapes.Shape { return n.outputs[0] }

// OutputShapes returns the types of all outputs. The returned slice must not be changed.
func (n *Node) OutputShapes() []shapes.Shape { return n.outputs }

// IsResolved returns whether all outputs of the node are resolved.
func (n *Node) IsResolved() bool {
	for _, output := range n.outputs {
		if !output.Ok() {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "#%d %s", n.id, n.op)
	if name := n.Name(); name != "" {
		_, _ = fmt.Fprintf(&sb, " %q", name)
	}
	if len(n.inputs) > 0 {
		ids := make([]string, len(n.inputs))
		for ii, input := range n.inputs {
			ids[ii] = fmt.Sprintf("#%d", input.id)
		}
		_, _ = fmt.Fprintf(&sb, "(%s)", strings.Join(ids, ", "))
	}
	outputs := make([]string, len(n.outputs))
	for ii, output := range n.outputs {
		outputs[ii] = output.String()
	}
	_, _ = fmt.Fprintf(&sb, " -> %s", strings.Join(outputs, ", "))
	return sb.String()
}
