// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package graph holds the operator graph whose types are inferred, and the Inferrer that drives the inference.
//
// The main elements in the package are:
//
//   - Graph: created with New, it holds the nodes, in creation order. Since a node can only be created from
//     existing nodes, creation order is a topological order.
//
//   - Node: a parameter (created with Graph.Parameter) or an operator (created with the builders ConvTranspose2D,
//     Conv2D, GlobalMaxPool2D, GlobalAvgPool2D, Pad, Round, Softmax and LogSoftmax). Each node has its typed
//     attributes (see package ops) and its output types, unresolved (shapes.Invalid()) until inferred.
//
//   - Inferrer: runs the inference rules (see package relations) until all types are resolved, or reports why
//     some node was rejected.
//
// Building a graph with nodes of different graphs, or with nil nodes, are programmer errors, and they panic
// (see github.com/gomlx/exceptions). Type errors are only reported by the Inferrer.
package graph

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types/shapes"
	"github.com/google/uuid"
)

// Graph of operator nodes.
type Graph struct {
	id    uuid.UUID
	name  string
	nodes []*Node

	parameters      []*Node
	parameterByName map[string]*Node
}

// New creates an empty Graph with the given name.
func New(name string) *Graph {
	return &Graph{
		id:              uuid.New(),
		name:            name,
		parameterByName: make(map[string]*Node),
	}
}

// ID is a unique identifier of the graph, used to correlate logs.
func (g *Graph) ID() uuid.UUID { return g.id }

// Name of the graph.
func (g *Graph) Name() string { return g.name }

// Nodes returns all the nodes of the graph, in creation order. The returned slice must not be changed.
func (g *Graph) Nodes() []*Node { return g.nodes }

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Parameters returns the parameter nodes, in creation order.
func (g *Graph) Parameters() []*Node { return g.parameters }

// ParameterByName returns the parameter with the given name, or nil if there is none.
func (g *Graph) ParameterByName(name string) *Node { return g.parameterByName[name] }

// Parameter creates an input node of the graph with the given name and shape.
//
// The shape may be shapes.Invalid(), or have symbolic dimensions. Unresolved parameters (e.g. weights) can be
// bound by the operators that consume them, if their type can be derived from the operator attributes.
//
// It panics if name is empty or already used.
func (g *Graph) Parameter(name string, shape shapes.Shape) *Node {
	if name == "" {
		exceptions.Panicf("Graph(%q).Parameter(): parameter name cannot be empty", g.name)
	}
	if _, found := g.parameterByName[name]; found {
		exceptions.Panicf("Graph(%q).Parameter(%q): parameter name already used", g.name, name)
	}
	node := g.newNode(ops.OpTypeParameter, nil, nil, 1)
	node.name = name
	node.outputs[0] = shape.Clone()
	g.parameters = append(g.parameters, node)
	g.parameterByName[name] = node
	return node
}

// newNode creates a node with unresolved outputs, and adds it to the graph.
func (g *Graph) newNode(op ops.OpType, attrs ops.Attributes, inputs []*Node, numOutputs int) *Node {
	for ii, input := range inputs {
		if input == nil {
			exceptions.Panicf("Graph(%q): input #%d of %s is nil", g.name, ii, op)
		}
		if input.graph != g {
			exceptions.Panicf("Graph(%q): input #%d of %s belongs to graph %q", g.name, ii, op, input.graph.name)
		}
	}
	node := &Node{
		graph:   g,
		id:      NodeId(len(g.nodes)),
		op:      op,
		attrs:   attrs,
		inputs:  inputs,
		outputs: make([]shapes.Shape, numOutputs),
	}
	for ii := range node.outputs {
		node.outputs[ii] = shapes.Invalid()
	}
	g.nodes = append(g.nodes, node)
	return node
}

// graphFromInputs returns the graph of the inputs. It panics if there are no inputs or if they are nil.
func graphFromInputs(inputs ...*Node) *Graph {
	if len(inputs) == 0 || inputs[0] == nil || inputs[0].graph == nil {
		exceptions.Panicf("operator built without a valid first input")
	}
	return inputs[0].graph
}

// IsResolved returns whether all the node outputs of the graph are resolved.
func (g *Graph) IsResolved() bool {
	for _, node := range g.nodes {
		if !node.IsResolved() {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer, listing all nodes.
func (g *Graph) String() string {
	parts := []string{fmt.Sprintf("Graph %q: %d nodes, %d parameters", g.name, len(g.nodes), len(g.parameters))}
	for _, node := range g.nodes {
		parts = append(parts, fmt.Sprintf("\t%s", node))
	}
	return strings.Join(parts, "\n")
}
