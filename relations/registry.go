// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package relations

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/shapeinference"
	"github.com/gomlx/shapeinfer/types"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
)

// RelationFunc is the inference function of a rule.
//
// types holds numInputs input slots followed by the output slots. The results are bound through reporter.
// If an input is not resolved yet it returns an inferror.UnresolvedInput error.
type RelationFunc func(types []shapes.Shape, numInputs int, attrs ops.Attributes, reporter *Reporter) error

// Rule is the inference rule of an operator.
type Rule struct {
	// NumInputs is the number of required inputs.
	NumInputs int

	// OptionalInputs is the number of inputs that may follow the required ones (e.g. the bias of a convolution).
	OptionalInputs int

	// NumOutputs is the number of outputs. If VariadicOutputs is set, it is the minimum number of outputs.
	NumOutputs int

	// VariadicOutputs rules accept NumOutputs or more outputs, all bound to the same type.
	VariadicOutputs bool

	Rel RelationFunc
}

// CheckArity returns an inferror.Internal error if the node doesn't have the number of inputs and outputs
// the rule expects.
func (rule Rule) CheckArity(op ops.OpType, numInputs, numOutputs int) error {
	if numInputs < rule.NumInputs || numInputs > rule.NumInputs+rule.OptionalInputs {
		if rule.OptionalInputs == 0 {
			return inferror.Errorf(inferror.Internal, "%s takes %d inputs, got %d", op, rule.NumInputs, numInputs)
		}
		return inferror.Errorf(inferror.Internal, "%s takes %d to %d inputs, got %d",
			op, rule.NumInputs, rule.NumInputs+rule.OptionalInputs, numInputs)
	}
	if rule.VariadicOutputs {
		if numOutputs < rule.NumOutputs {
			return inferror.Errorf(inferror.Internal, "%s has at least %d outputs, got %d", op, rule.NumOutputs, numOutputs)
		}
	} else if numOutputs != rule.NumOutputs {
		return inferror.Errorf(inferror.Internal, "%s has %d outputs, got %d", op, rule.NumOutputs, numOutputs)
	}
	return nil
}

// Registry maps each operator to its inference rule. It is built once by NewRegistry and is read-only
// afterwards, so it can be shared by concurrent inferences.
type Registry struct {
	rules map[ops.OpType]Rule
}

// NewRegistry returns the registry with the rules of all operators in ops.Operators().
//
// It panics if any operator is left without a rule.
func NewRegistry() *Registry {
	r := &Registry{rules: make(map[ops.OpType]Rule)}
	r.register(ops.OpTypeConv2D, Rule{NumInputs: 2, OptionalInputs: 1, NumOutputs: 1,
		Rel: withAttrs(ops.OpTypeConv2D, convRel(ops.OpTypeConv2D, shapeinference.Conv2DOp))})
	r.register(ops.OpTypeConvTranspose2D, Rule{NumInputs: 2, OptionalInputs: 1, NumOutputs: 1,
		Rel: withAttrs(ops.OpTypeConvTranspose2D, convRel(ops.OpTypeConvTranspose2D, shapeinference.ConvTranspose2DOp))})
	for op := range shapeinference.GlobalPoolOperations {
		r.register(op, Rule{NumInputs: 1, NumOutputs: 1, Rel: withAttrs(op, globalPoolRel)})
	}
	r.register(ops.OpTypePad, Rule{NumInputs: 1, NumOutputs: 1, Rel: withAttrs(ops.OpTypePad, padRel)})
	r.register(ops.OpTypeRound, Rule{NumInputs: 1, NumOutputs: 1, VariadicOutputs: true,
		Rel: withAttrs(ops.OpTypeRound, unaryRel)})
	r.register(ops.OpTypeSoftmax, Rule{NumInputs: 1, NumOutputs: 1, VariadicOutputs: true,
		Rel: withAttrs(ops.OpTypeSoftmax, softmaxRel)})
	r.register(ops.OpTypeLogSoftmax, Rule{NumInputs: 1, NumOutputs: 1, VariadicOutputs: true,
		Rel: withAttrs(ops.OpTypeLogSoftmax, softmaxRel)})

	missing := types.SetWith(ops.Operators()...).Sub(r.registered())
	if len(missing) > 0 {
		exceptions.Panicf("relations.NewRegistry(): operators without an inference rule: %v", types.SortedKeys(missing))
	}
	return r
}

func (r *Registry) register(op ops.OpType, rule Rule) {
	if _, found := r.rules[op]; found {
		exceptions.Panicf("relations.NewRegistry(): rule for %s registered twice", op)
	}
	r.rules[op] = rule
}

func (r *Registry) registered() types.Set[ops.OpType] {
	s := types.MakeSet[ops.OpType](len(r.rules))
	for op := range r.rules {
		s.Insert(op)
	}
	return s
}

// Lookup returns the rule for the operator. It returns an inferror.Internal error if there is none.
func (r *Registry) Lookup(op ops.OpType) (Rule, error) {
	rule, found := r.rules[op]
	if !found {
		return Rule{}, inferror.Errorf(inferror.Internal, "no inference rule for operator %s", op)
	}
	return rule, nil
}

// withAttrs adapts a relation taking the concrete attributes type A to a RelationFunc.
// A node with attributes of another type fails with an inferror.Internal error.
func withAttrs[A ops.Attributes](op ops.OpType, rel func(types []shapes.Shape, numInputs int, attrs A, reporter *Reporter) error) RelationFunc {
	return func(types []shapes.Shape, numInputs int, attrs ops.Attributes, reporter *Reporter) error {
		typed, ok := attrs.(A)
		if !ok {
			var want A
			return inferror.Errorf(inferror.Internal, "%s: attributes must be %T, got %T", op, want, attrs)
		}
		return rel(types, numInputs, typed, reporter)
	}
}
