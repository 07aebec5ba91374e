// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	// Sets are created empty.
	s := MakeSet[int](10)
	assert.Len(t, s, 0)

	s.Insert(3, 7)
	assert.Len(t, s, 2)
	assert.True(t, s.Has(3))
	assert.False(t, s.Has(5))

	s2 := SetWith(5, 7)
	s3 := s.Sub(s2)
	assert.Len(t, s3, 1)
	assert.True(t, s3.Has(3))

	delete(s, 7)
	assert.Equal(t, s3, s)
	assert.Empty(t, s.Sub(s3))

	assert.Equal(t, []int{3, 5, 7}, SortedKeys(SetWith(7, 3, 5)))
	assert.Equal(t, []string{"edge", "reflect"}, SortedKeys(SetWith("reflect", "edge")))
}
