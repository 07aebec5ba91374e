// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package relations binds inference results to the type slots of a node, and holds the static registry of
// inference rules, one per operator.
//
// A node with N inputs and M outputs has N+M type slots: inputs first, then outputs. A rule reads the slots,
// and binds its results with a Reporter.
package relations

import (
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
)

// Reporter holds the type slots of a node while its rule runs.
//
// It works on a copy of the types, so nothing is committed to the graph if the rule fails.
type Reporter struct {
	types []shapes.Shape
	bound []bool
}

// NewReporter creates a Reporter for the given slots. Unresolved slots hold shapes.Invalid().
func NewReporter(types []shapes.Shape) *Reporter {
	r := &Reporter{
		types: make([]shapes.Shape, len(types)),
		bound: make([]bool, len(types)),
	}
	for ii, t := range types {
		r.types[ii] = t.Clone()
	}
	return r
}

// NumSlots returns the number of type slots.
func (r *Reporter) NumSlots() int { return len(r.types) }

// Type returns the current type of the slot.
func (r *Reporter) Type(slot int) shapes.Shape { return r.types[slot] }

// Types returns all slots. The returned slice must not be modified.
func (r *Reporter) Types() []shapes.Shape { return r.types }

// Assign binds shape to the slot.
//
// If the slot is unresolved the shape is stored. If it is already resolved, Assign asserts instead that
// the dtypes are equal and the dimensions compatible (symbolic dimensions are compatible with anything),
// and returns an inferror.ConfigMismatch error otherwise. The resolved value is kept.
func (r *Reporter) Assign(slot int, shape shapes.Shape) error {
	if slot < 0 || slot >= len(r.types) {
		return inferror.Errorf(inferror.Internal, "Reporter.Assign(%d): slot out of range, there are %d slots", slot, len(r.types))
	}
	if !shape.Ok() {
		return inferror.Errorf(inferror.Internal, "Reporter.Assign(%d): cannot bind an invalid shape", slot)
	}
	current := r.types[slot]
	if !current.Ok() {
		r.types[slot] = shape.Clone()
		r.bound[slot] = true
		return nil
	}
	if err := current.Check(shape.DType, shape.Dimensions...); err != nil {
		return inferror.Wrapf(inferror.ConfigMismatch, err, "type slot #%d is %s, but %s was inferred", slot, current, shape)
	}
	return nil
}

// AssertEqual returns whether the dimensions of the two slots may be equal: both are resolved, have the
// same rank, and each axis is equal or symbolic in at least one of them.
func (r *Reporter) AssertEqual(slotA, slotB int) bool {
	a, b := r.types[slotA], r.types[slotB]
	return a.Ok() && b.Ok() && a.CheckDims(b.Dimensions...) == nil
}

// Bound returns the slots that were unresolved and got bound by Assign, in increasing order.
func (r *Reporter) Bound() []int {
	var slots []int
	for slot, isBound := range r.bound {
		if isBound {
			slots = append(slots, slot)
		}
	}
	return slots
}
