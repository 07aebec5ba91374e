// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/shapeinfer/internal/workerspool"
	"github.com/gomlx/shapeinfer/relations"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// PassStats summarizes one inference pass, reported to a Progress.
type PassStats struct {
	// Pass number, starting at 1.
	Pass int

	// Resolved is the number of operator nodes resolved in this pass, Pending the number still waiting for
	// their inputs, and Total the number of operator nodes in the graph.
	Resolved, Pending, Total int
}

// Progress is notified of the progress of inference.
type Progress interface {
	// Update is called after each pass.
	Update(stats PassStats)

	// Done is called once inference finishes, successfully or not.
	Done()
}

// Inferrer infers the types of all nodes of a graph.
//
// It runs passes over the operator nodes not yet inferred. In a pass, each pending node is evaluated against
// the types resolved so far. The evaluations run in parallel, and their results are committed in node order
// once all of them finish. Nodes whose inputs are not resolved yet are retried in the next pass, until all are
// resolved, or a pass makes no progress.
//
// An Inferrer can be reused for several graphs, but not concurrently.
type Inferrer struct {
	registry *relations.Registry
	pool     *workerspool.Pool
	progress Progress
}

// NewInferrer creates an Inferrer using the rules of registry. It uses runtime.NumCPU() parallelism by default.
func NewInferrer(registry *relations.Registry) *Inferrer {
	if registry == nil {
		exceptions.Panicf("graph.NewInferrer(): registry cannot be nil")
	}
	return &Inferrer{
		registry: registry,
		pool:     workerspool.New(),
	}
}

// WithParallelism sets the maximum number of nodes evaluated in parallel. 0 evaluates them inline, one after
// the other, and -1 means unlimited. It returns the Inferrer itself, for cascading configuration calls.
func (inf *Inferrer) WithParallelism(parallelism int) *Inferrer {
	inf.pool.SetMaxParallelism(parallelism)
	return inf
}

// WithProgress sets a Progress notified after each pass. It returns the Inferrer itself.
func (inf *Inferrer) WithProgress(progress Progress) *Inferrer {
	inf.progress = progress
	return inf
}

// evaluation is the result of evaluating one node's rule.
type evaluation struct {
	reporter *relations.Reporter
	err      error
}

// Infer resolves the types of all nodes of g.
//
// Types already resolved (e.g. by a previous call) are re-validated: an operator output that doesn't match
// what its rule infers is an inferror.ConfigMismatch error.
//
// On failure, it returns the error of the first rejected node (in node order), with the node in the message.
// If nodes are left unresolved, it returns an inferror.UnresolvedInput error listing them. Nodes rejected or
// left unresolved keep their outputs unresolved.
func (inf *Inferrer) Infer(g *Graph) (err error) {
	if inf.progress != nil {
		defer inf.progress.Done()
	}
	var pending []*Node
	for _, node := range g.nodes {
		if node.op.IsOperator() {
			pending = append(pending, node)
		}
	}
	total := len(pending)
	klog.V(1).Infof("Graph %q (id=%s): inferring %d operator nodes, parallelism=%d", g.name, g.id, total, inf.pool.MaxParallelism())

	for pass := 1; len(pending) > 0; pass++ {
		evaluations := make([]evaluation, len(pending))
		err = inf.pool.ForEach(len(pending), func(i int) error {
			evaluations[i] = inf.evaluate(pending[i])
			return nil
		})
		if err != nil {
			return inferror.Wrapf(inferror.Internal, err, "graph %q: pass %d", g.name, pass)
		}

		// Commit in node order.
		var stillPending []*Node
		var unresolvedErrs []error
		committed := 0
		for i, node := range pending {
			eval := evaluations[i]
			if eval.err != nil {
				if inferror.IsUnresolved(eval.err) {
					stillPending = append(stillPending, node)
					unresolvedErrs = append(unresolvedErrs, eval.err)
					continue
				}
				klog.V(1).Infof("Graph %q: node %s rejected: %v", g.name, node, eval.err)
				return errors.WithMessagef(eval.err, "graph %q, node %s", g.name, node)
			}
			if !inf.commit(node, eval.reporter) {
				// A producer was bound by another node in this pass: evaluate it again against the new type.
				stillPending = append(stillPending, node)
				unresolvedErrs = append(unresolvedErrs, inferror.Errorf(inferror.UnresolvedInput, "input bound concurrently"))
				continue
			}
			committed++
		}
		klog.V(1).Infof("Graph %q: pass %d resolved %d nodes, %d pending", g.name, pass, committed, len(stillPending))
		if inf.progress != nil {
			inf.progress.Update(PassStats{Pass: pass, Resolved: committed, Pending: len(stillPending), Total: total})
		}
		if committed == 0 {
			parts := make([]string, len(stillPending))
			for ii, node := range stillPending {
				parts[ii] = node.String() + ": " + unresolvedErrs[ii].Error()
			}
			return inferror.Errorf(inferror.UnresolvedInput, "graph %q: %d nodes can't be resolved:\n\t%s",
				g.name, len(stillPending), strings.Join(parts, "\n\t"))
		}
		pending = stillPending
	}
	return nil
}

// evaluate runs the node's rule against a copy of its types. It only reads the graph.
func (inf *Inferrer) evaluate(node *Node) (eval evaluation) {
	rule, err := inf.registry.Lookup(node.op)
	if err != nil {
		return evaluation{err: err}
	}
	if err = rule.CheckArity(node.op, len(node.inputs), len(node.outputs)); err != nil {
		return evaluation{err: err}
	}
	types := make([]shapes.Shape, 0, len(node.inputs)+len(node.outputs))
	for _, input := range node.inputs {
		types = append(types, input.Shape())
	}
	types = append(types, node.outputs...)
	reporter := relations.NewReporter(types)
	exception := exceptions.TryCatch[error](func() {
		err = rule.Rel(reporter.Types(), len(node.inputs), node.attrs, reporter)
	})
	if exception != nil {
		return evaluation{err: inferror.Wrapf(inferror.Internal, exception, "%s rule panicked", node.op)}
	}
	if err != nil {
		return evaluation{err: err}
	}
	return evaluation{reporter: reporter}
}

// commit writes the slots bound by the reporter into the graph: the node's outputs, and unresolved outputs
// of its producers. It returns false, and commits nothing, if a producer bound by the reporter was resolved
// in the meantime.
func (inf *Inferrer) commit(node *Node, reporter *relations.Reporter) bool {
	numInputs := len(node.inputs)
	bound := reporter.Bound()
	for _, slot := range bound {
		if slot < numInputs && node.inputs[slot].Shape().Ok() {
			return false
		}
	}
	for _, slot := range bound {
		shape := reporter.Type(slot)
		if slot < numInputs {
			producer := node.inputs[slot]
			klog.V(2).Infof("Graph %q: node %s binds input #%d (node #%d) to %s", node.graph.name, node, slot, producer.id, shape)
			producer.outputs[0] = shape
			continue
		}
		node.outputs[slot-numInputs] = shape
	}
	klog.V(2).Infof("Graph %q: resolved %s", node.graph.name, node)
	return true
}
