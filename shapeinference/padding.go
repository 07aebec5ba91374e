// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types/inferror"
)

// NormalizePadding converts padding given in any of the forms accepted by ops.Padding into one (before, after)
// pair per spatial axis.
//
// It returns an inferror.ShapeRankMismatch error if the number of values doesn't match numSpatial, and an
// inferror.InvalidValue error for negative values.
func NormalizePadding(padding ops.Padding, numSpatial int) ([][2]int, error) {
	pairs := make([][2]int, numSpatial)
	values := padding.Values()
	switch padding.Form() {
	case ops.PaddingNone:
		return pairs, nil

	case ops.PaddingSymmetric:
		for axis := range pairs {
			pairs[axis] = [2]int{values[0][0], values[0][0]}
		}

	case ops.PaddingPair:
		for axis := range pairs {
			pairs[axis] = [2]int{values[0][0], values[0][1]}
		}

	case ops.PaddingPerAxis:
		if len(values) != numSpatial {
			return nil, inferror.Errorf(inferror.ShapeRankMismatch,
				"padding %s has %d pairs, wanted one per spatial axis (%d)", padding, len(values), numSpatial)
		}
		for axis, pair := range values {
			if len(pair) != 2 {
				return nil, inferror.Errorf(inferror.ShapeRankMismatch,
					"padding %s for spatial axis %d has %d values, wanted 2 (before and after)", padding, axis, len(pair))
			}
			pairs[axis] = [2]int{pair[0], pair[1]}
		}

	case ops.PaddingFlat:
		flat := values[0]
		switch len(flat) {
		case 1:
			for axis := range pairs {
				pairs[axis] = [2]int{flat[0], flat[0]}
			}
		case numSpatial:
			for axis := range pairs {
				pairs[axis] = [2]int{flat[axis], flat[axis]}
			}
		case 2 * numSpatial:
			for axis := range pairs {
				pairs[axis] = [2]int{flat[axis], flat[numSpatial+axis]}
			}
		default:
			return nil, inferror.Errorf(inferror.ShapeRankMismatch,
				"padding %v has %d values, wanted 1, %d or %d for %d spatial axes", flat, len(flat), numSpatial, 2*numSpatial, numSpatial)
		}

	default:
		return nil, inferror.Errorf(inferror.Internal, "unknown padding form %d", padding.Form())
	}

	for axis, pair := range pairs {
		if pair[0] < 0 || pair[1] < 0 {
			return nil, inferror.Errorf(inferror.InvalidValue,
				"padding %s: spatial axis %d has negative padding %v", padding, axis, pair)
		}
	}
	return pairs, nil
}
