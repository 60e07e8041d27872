// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package tokalign

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexes(rs []CandidateAlignment) []int {
	idx := make([]int, len(rs))
	for i, r := range rs {
		idx[i] = r.Index
	}
	return idx
}

func TestTopKSortedAndDeterministic(t *testing.T) {
	query := []uint64{1, 2}
	candidates := [][]uint64{{3, 4}, {1, 2, 1, 2}, {1, 2}, {0, 1, 2, 3}}

	for _, threads := range []int{1, 2, 8} {
		rs := NewWithThreads(DefaultScoreParams, threads).TopK(query, candidates, 3)
		require.Len(t, rs, 3)
		assert.Equal(t, []int{1, 2, 3}, indexes(rs), "threads: %d", threads)

		assert.Equal(t, Alignment{Score: 4, QueryEnd: 2, TokenEnd: 2, Matches: 2}, rs[0].Alignment)
		assert.Equal(t, Alignment{Score: 4, QueryEnd: 2, TokenStart: 1, TokenEnd: 3, Matches: 2}, rs[2].Alignment)
	}
}

func TestTopKEmpty(t *testing.T) {
	query := []uint64{1, 2}

	assert.Empty(t, TopK(query, [][]uint64{{1, 2}}, 0))
	assert.Empty(t, TopK(query, [][]uint64{{1, 2}}, -1))
	assert.Empty(t, TopK(query, nil, 3))
	assert.Empty(t, TopK(query, [][]uint64{}, 3))

	_, ok := Best(query, nil)
	assert.False(t, ok)
}

func TestTopKLength(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	query := randomSeq(rng, 10, 4)
	candidates := make([][]uint64, 7)
	for i := range candidates {
		candidates[i] = randomSeq(rng, 5+rng.Intn(20), 4)
	}

	al := New(DefaultScoreParams)
	for k := 1; k <= 10; k++ {
		rs := al.TopK(query, candidates, k)
		n := k
		if n > len(candidates) {
			n = len(candidates)
		}
		assert.Len(t, rs, n)
	}

	// all candidates kept, including zero-score ones and empty ones
	candidates = append(candidates, []uint64{}, []uint64{99})
	rs := al.TopK(query, candidates, len(candidates))
	require.Len(t, rs, len(candidates))
	seen := make(map[int]bool, len(rs))
	for _, r := range rs {
		seen[r.Index] = true
	}
	assert.Len(t, seen, len(candidates))
	assert.Equal(t, Alignment{}, rs[len(rs)-1].Alignment)
}

func TestTopKIndependentOfThreads(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for round := 0; round < 20; round++ {
		query := randomSeq(rng, 3+rng.Intn(10), 3)
		candidates := make([][]uint64, 1+rng.Intn(40))
		for i := range candidates {
			candidates[i] = randomSeq(rng, rng.Intn(30), 3)
		}

		expected := NewWithThreads(DefaultScoreParams, 1).TopK(query, candidates, len(candidates))
		for i := 1; i < len(expected); i++ {
			require.Less(t, CompareCandidates(&expected[i-1], &expected[i]), 0)
		}
		for i, r := range expected {
			aln, blocks := AlignWithBlocks(query, candidates[r.Index])
			require.Equal(t, aln, r.Alignment, "result %d", i)
			checkAlignment(t, query, candidates[r.Index], aln, blocks)
		}

		for _, threads := range []int{2, 3, 8, 64} {
			rs := NewWithThreads(DefaultScoreParams, threads).TopK(query, candidates, len(candidates))
			require.Equal(t, expected, rs, "threads: %d", threads)
		}
	}
}

func TestBestEqualsTop1(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for round := 0; round < 20; round++ {
		query := randomSeq(rng, 1+rng.Intn(8), 4)
		candidates := make([][]uint64, 1+rng.Intn(10))
		for i := range candidates {
			candidates[i] = randomSeq(rng, rng.Intn(15), 4)
		}

		best, ok := Best(query, candidates)
		require.True(t, ok)
		top := TopK(query, candidates, 1)
		require.Len(t, top, 1)
		require.Equal(t, top[0], best)
	}
}
