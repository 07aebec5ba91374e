// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package layout

import (
	"math/rand/v2"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/shapeinfer/types/inferror"
	"github.com/gomlx/shapeinfer/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	l, err := Parse("NCHW16c")
	require.NoError(t, err)
	assert.Equal(t, 5, l.Rank())
	assert.Equal(t, "NCHW16c", l.String())
	assert.Equal(t, 1, l.IndexOf('C'))
	assert.Equal(t, 4, l.IndexOf('c'))
	assert.Equal(t, 16, l.Axes()[4].Factor)
	assert.True(t, l.IsSplit('C'))
	assert.False(t, l.IsSplit('H'))
	assert.False(t, l.Contains('D'))
	assert.Equal(t, -1, l.IndexOf('D'))

	l = MustParse(NHWC)
	assert.Equal(t, 3, l.IndexOf('C'))
	assert.True(t, l.Defined())
	assert.False(t, Layout{}.Defined())

	for _, bad := range []string{"NCHW4", "NC4HW", "NCHH", "NCHW0c", "NCHW16d", "NC-HW", "NCHWé"} {
		_, err := Parse(bad)
		require.Errorf(t, err, "layout %q should fail to parse", bad)
		assert.Truef(t, inferror.Is(err, inferror.LayoutError), "layout %q: wrong error kind: %v", bad, err)
	}
	require.Panics(t, func() { _ = MustParse("NCHH") })
}

func TestBijective(t *testing.T) {
	b, err := NewBijective(MustParse(NHWC), MustParse(NCHW))
	require.NoError(t, err)
	dims, err := b.ForwardDims([]int{1, 4, 5, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5}, dims)
	dims, err = b.BackwardDims([]int{1, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 5, 3}, dims)

	named := shapes.MakeDynamic(dtypes.Float32, shapes.DimUnknown, 4, 5, 3).WithAxisNames("batch", "", "", "")
	canonical, err := b.ForwardShape(named)
	require.NoError(t, err)
	assert.Equal(t, "(Float32)[batch 3 4 5]", canonical.String())

	_, err = b.ForwardDims([]int{1, 2, 3})
	require.True(t, inferror.Is(err, inferror.ShapeRankMismatch))
	_, err = b.BackwardShape(shapes.Make(dtypes.Float32, 1, 2, 3, 4, 5))
	require.True(t, inferror.Is(err, inferror.ShapeRankMismatch))

	testCases := []struct{ src, dst string }{
		{"NCW", NCHW},     // Missing H.
		{"NCHW16c", NCHW}, // Split C.
		{"NCHWD", NCHW},   // Extra axis.
		{NCHW, "NCHW4c"},  // Minor axis in canonical layout.
	}
	for _, tc := range testCases {
		_, err := NewBijective(MustParse(tc.src), MustParse(tc.dst))
		require.Errorf(t, err, "%s -> %s", tc.src, tc.dst)
		assert.True(t, inferror.Is(err, inferror.LayoutError))
	}
	_, err = NewBijective(Layout{}, MustParse(NCHW))
	require.True(t, inferror.Is(err, inferror.LayoutError))
}

// permutations returns all permutations of s.
func permutations(s string) []string {
	if len(s) <= 1 {
		return []string{s}
	}
	var results []string
	for ii := range s {
		rest := s[:ii] + s[ii+1:]
		for _, p := range permutations(rest) {
			results = append(results, string(s[ii])+p)
		}
	}
	return results
}

func TestBijectiveRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	perms := permutations(NCHW)
	require.Len(t, perms, 24)
	canonical := MustParse(NCHW)
	for _, p := range perms {
		b, err := NewBijective(MustParse(p), canonical)
		require.NoError(t, err)
		for range 20 {
			dims := make([]int, 4)
			for ii := range dims {
				dims[ii] = rng.IntN(10)
				if rng.IntN(5) == 0 {
					dims[ii] = shapes.DimUnknown
				}
			}
			s := shapes.MakeDynamic(dtypes.Int8, dims...)
			fwd, err := b.ForwardShape(s)
			require.NoError(t, err)
			for j, axis := range canonical.Axes() {
				require.Equal(t, s.Dimensions[MustParse(p).IndexOf(axis.Label)], fwd.Dimensions[j])
			}
			back, err := b.BackwardShape(fwd)
			require.NoError(t, err)
			require.Truef(t, s.Equal(back), "layout %s: %s -> %s -> %s", p, s, fwd, back)
			require.Equal(t, s.Dimensions, back.Dimensions)
		}
	}
}
